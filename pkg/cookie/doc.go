// Package cookie writes and reads the cookies of the framework with shared
// attributes.
//
// With a secret of at least 32 bytes configured, [Manager.Read] and
// [Manager.Write] sign values with HMAC-SHA256 so a tampered cookie reads
// as [ErrBadSig]. Without a secret they fall back to plain cookies, which
// is what development setups usually run with.
//
//	m := cookie.New(
//	    cookie.WithSecret(cfg.CookieSecret),
//	    cookie.WithSecure(!cfg.DevMode),
//	)
//	m.Write(w, "__sid", token, 86400)
//	token, err := m.Read(r, "__sid")
package cookie
