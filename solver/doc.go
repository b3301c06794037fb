// doc.go — see the package comment in backend.go.
package solver
