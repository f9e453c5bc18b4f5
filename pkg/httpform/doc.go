// Package httpform serves forms over net/http: it adapts requests and
// responses to the form lifecycle, keeps the redirect-after-post slot in a
// cookie keyed session, and records metrics, traces and logs per request.
//
// Mount a form on any router that has a Handle method:
//
//	f := form.MustNew("contact", contactSchema)
//	pattern, err := httpform.RegisterRoutes(mux, "/forms", f,
//		httpform.WithRoutePath("/contact"),
//		httpform.WithRenderer(engine),
//	)
package httpform
