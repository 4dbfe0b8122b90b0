// Package server exposes stored scenarios over HTTP.
//
// Routes:
//
//	GET    /healthz                          liveness and build version
//	GET    /metrics                          Prometheus exposition (when enabled)
//	GET    /scenarios                        list stored documents
//	GET    /scenarios/{id}                   fetch a document (?format=yaml)
//	PUT    /scenarios/{id}                   store a document (JSON or YAML body)
//	DELETE /scenarios/{id}                   remove a document
//	GET    /scenarios/{id}/frame.svg         animated view at ?step=N
//	GET    /scenarios/{id}/structure.svg     Graphviz view at ?step=N
//
// A missing or negative step renders the end of the scenario. Errors are JSON
// objects carrying the error code and message.
package server
