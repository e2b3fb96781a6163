// Package container builds Google Tag Manager container exports for a
// Conversions API setup.
//
// A build turns one config.Config into two documents: the web container
// (GA4 configuration and event tags, Meta Pixel tags with advanced matching,
// a form-capture tag) and the server container (GA4 client, event-data and
// cookie variables, one Conversions API tag behind a single regex trigger).
//
// Builds are pure: no I/O, no validation of the input, and the scripts they
// emit are never executed here. Every build owns its own Allocator, so
// trigger ids always start at "1" and concurrent builds never interfere.
// Only Document.exportTime depends on the clock; inject Options.Now to pin it.
//
// Placeholders such as {{Cookie - _fbp}} are written through Ref and checked
// against the document's declared variables by Document.Resolve before
// serialization.
package container
