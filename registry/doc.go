// Package registry provides a YAML-backed resource catalog for WAD decoding.
//
// A catalog file lists every resource id a WAD may reference:
//
//	resources:
//	  - id: 5863
//	    name: GEN_FROG.XMR
//	    theme: GEN
//	  - id: 5864
//	    name: GEN_FROG2.XMR
//	    digest: sha256:9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08
//	  - id: 5870
//	    name: IMPORTED.XMR
//	    import: true
//	parent_overrides:
//	  GEN_FROG2.XMR: GEN_FROG.XMR
//
// Digests use the OCI digest format. VerifyHash checks a payload against the
// recorded digest and records one when none is known.
package registry
