// Package apiclient wraps HTTP access to the docuchat platform API gateway.
//
// The Client attaches bearer credentials from a TokenSource on every call,
// streams multipart uploads with progress reporting, and normalizes every
// non-2xx response into an *APIError carrying either a plain string detail or
// an ordered list of field-level validation errors. FormatError turns any of
// those failures into a single human-readable line.
//
//	client := apiclient.New(
//		apiclient.WithBaseURL("https://api.example.com"),
//		apiclient.WithTokenSource(manager),
//	)
//
//	var user session.User
//	if err := client.Get(ctx, "/api/auth/me", &user); err != nil {
//		fmt.Println(apiclient.FormatError(err, "request failed"))
//	}
//
// The client itself never touches stored tokens; session teardown on 401 is
// the session manager's decision.
package apiclient
