// Package s3 uploads install diagnostics to an S3-compatible object store
// such as IBM Cloud Object Storage.
package s3
