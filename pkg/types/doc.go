// Package types provides the shared data model and collaborator interfaces for the ECR janitor.
// It defines repositories, images, report rows, and the registry and report publisher contracts
// implemented by the AWS-backed clients and their test mocks.
//
// Key components:
//   - Repository: An ECR repository addressed by registry ID and name.
//   - Image: A pushed image with digest, tags, and push timestamp.
//   - ReportRow: One kept or ignored image recorded for the published inventory.
//   - RegistryClient: Pagination and batch deletion against the registry.
//   - ReportPublisher: Upload of the rendered inventory document.
//
// The package has no dependencies beyond the standard library, allowing every other
// package to consume the model without import cycles.
package types
