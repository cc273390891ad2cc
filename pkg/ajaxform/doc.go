// Package ajaxform implements the request lifecycle of modal forms that
// load and submit their data over JSON.
//
// A [Form] describes the form: its ID, title, the object it edits, and
// how it submits. A [Handler] binds a form to a [Provider], which supplies
// the initial field values and processes submissions. For every request
// addressed to the form the handler writes exactly one JSON envelope:
//
//	{"status":"ok","form-id":"contact","csrf-token":"<64 hex>", ...fields}
//	{"status":"error","form-id":"contact","csrf-token":"<64 hex>","error":400,"messages":["..."]}
//
// Every error envelope carries a freshly issued anti-forgery token, so the
// client can always retry. Submissions must echo the token received with
// the initial data; it is consumed on the first check.
//
// A request whose form-id does not name the handler's form is left
// untouched and Handle reports false. [Chain] uses this to serve several
// forms from one endpoint.
//
// Content type, method and token failures use fixed messages; business
// failures are reported by returning an [*Error] from the provider or by
// calling [Responder.Error].
package ajaxform
