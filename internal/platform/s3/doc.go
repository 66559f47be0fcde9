// Package s3 reads stack templates and catalogs stored in Amazon S3.
//
// Objects are addressed with s3://bucket/key URIs. The client is built from
// the shared AWS configuration, so it uses the same credentials and region
// as the CloudFormation deployer.
package s3
