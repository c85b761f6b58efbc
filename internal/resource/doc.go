// Package resource turns logical location strings into openable handles.
//
// A Resolver is the single strategy a context is parameterised with. The
// FileSystemResolver implements the file-system convention: a leading path
// separator does not denote the file-system root, it is stripped and the
// remainder is taken relative to the process working directory. This is the
// behaviour hosted environments expect, where "/conf/app.hcl" means "conf/app.hcl
// under the application root".
//
// A truly absolute file is addressed through the Provider with an explicit
// "file:" prefix ("file:/etc/app.hcl" or "file:///etc/app.hcl"). Those
// locations bypass the Resolver and are used as stated.
//
// Resolution never performs I/O and never fails; a handle that points at a
// missing resource reports a KindResourceNotFound error when it is opened.
package resource
