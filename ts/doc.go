// doc.go — see the package comment in types.go.
package ts
