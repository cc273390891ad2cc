// Package api serves small JSON endpoints.
//
// Every response is an Envelope: {"data": ..., "messages": [...]}.
// A Consumer receives the raw JSON body, usually decoding it with Decode,
// and answers through Respond.
package api
