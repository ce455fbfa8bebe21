// Package definition loads declarative form documents (YAML or JSON) and
// replays them against a builder.Builder.
//
//	forms:
//	  contact:
//	    method: post
//	    action: /contact
//	    csrf: true
//	    elements:
//	      - {kind: input, type: email, name: email, rules: "required,email"}
//	      - {kind: textarea, name: message, rows: 5}
//	      - {kind: button, type: submit, name: send, text: Send}
package definition
