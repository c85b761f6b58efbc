// Package appctx implements the declarative, file-driven component context.
//
// A Context is built from an ordered list of config locations. Refresh
// expands the locations, resolves each to a resource, loads every resource
// in order into a fresh definition registry (later definitions override
// earlier ones) and finally runs the configured initializers. Refresh runs
// at most once per Context: the override semantics assume a single pass, so
// reconfiguring means discarding the Context and building a new one.
//
// The engine is parameterised by a resource.Resolver instead of being
// specialised by inheritance. NewFileSystem supplies the file-system
// resolver, whose convention treats "/conf/app.hcl" as "conf/app.hcl" under
// the working directory; any other resolver (for example one over an
// embed.FS) can be passed to New.
//
// Lifecycle:
//
//	Unrefreshed --Refresh--> Refreshing --> Active --Close--> Closed
//	                                   \--> Failed --Close--> Closed
package appctx
