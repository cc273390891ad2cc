// Package staticform handles classic full-page POST forms.
//
// A rendered form carries two hidden fields: "action" with the form id and
// "csrf-token" with a single-use token stored in the session under
// "carrier_csrf_<id>". Handle recognises a submission by the action field,
// checks the token and then hands the posted values to a ProcessFunc.
// A failed check queues an error toast instead.
package staticform
