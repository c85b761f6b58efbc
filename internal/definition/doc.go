// Package definition reads declarative component definitions out of
// resources and accumulates them in a Registry.
//
// A definition document may be written in native HCL (.hcl), HCL's JSON
// syntax (.json) or YAML (.yaml, .yml):
//
//	imports = ["common.hcl"]
//
//	component "svc" {
//	  type       = "example.Service"
//	  scope      = "singleton"
//	  lazy       = false
//	  depends_on = ["db"]
//
//	  # every other attribute is a property
//	  value = 1
//	  url   = "http://${env.HOST}:8080"
//	}
//
//	alias "service" {
//	  target = "svc"
//	}
//
// Imports are resolved relative to the importing resource and loaded before
// the importing document's own definitions. Whenever a name is registered a
// second time the later registration wins; the Registry keeps a record of
// every such override.
package definition
