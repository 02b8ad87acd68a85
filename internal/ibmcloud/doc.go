// Package ibmcloud holds what the IBM Cloud REST clients share: service
// endpoints, the REST client constructor and the APIError type.
//
// None of the clients retry. A non-2xx response is always returned as an
// *APIError carrying the status code and body.
package ibmcloud
