// Package toast keeps a queue of one-shot notifications in the visitor's
// session and renders them on the next page view.
//
//	_ = toast.AddSuccess(sess, "Saved")
//	http.Redirect(w, r, "/", http.StatusSeeOther)
//
// The next page renders toast.Toasts(sess, appName, devMode), which also
// clears the queue.
package toast
