// Package installer drives a Cloud Pak for Data installation onto an IBM
// Cloud cluster through the global catalog and IBM Cloud Schematics.
//
// An installation moves through a fixed sequence of stages:
//
//	idle -> locating-version -> pre-installing -> waiting-pre-install
//	     -> installing -> waiting-install -> succeeded
//
// Any stage may end in failed. The submission calls are never retried;
// only the completion of the pre-install and install is awaited by polling.
// When the install wait times out the Schematics log is fetched and attached
// to the returned *poll.TimeoutError.
package installer
