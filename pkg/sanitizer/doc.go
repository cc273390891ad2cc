// Package sanitizer cleans user input before validation.
//
// HTML helpers are backed by bluemonday. SanitizeStruct applies the rules
// named in `sanitize` struct tags: trim, lower, upper, utf8, strip, html,
// email, name and digits.
package sanitizer
