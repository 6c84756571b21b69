// Package authclient orchestrates the client side of the Metodos
// authentication front end: registration, password login, email and SMS
// one-time codes, authenticator-app (TOTP) verification, and password
// recovery against the existing backend HTTP contract.
//
// The package is the decision layer. It validates input, calls the
// backend through [Gateway], records session hints in a two-scope
// [storage.State], and drives whatever user interface is attached
// through the [present.Presenter] and [present.Navigator] contracts.
// Rendering never decides; flows never render.
//
// Construct a [Flow] through [Builder]:
//
//	flow, err := authclient.New().
//		WithConfig(cfg).
//		WithPresenter(present.NewConsole(os.Stdout)).
//		WithNavigator(nav).
//		Build()
//
// Flow methods are safe for concurrent use. Each page operation carries
// a re-entrancy guard: a second call while the first is still in flight
// returns [ErrBusy] without touching the network.
package authclient
