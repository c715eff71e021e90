// Package report renders the inventory of kept and ignored images as a
// static HTML table and publishes it to S3 as a publicly readable object.
//
// Key components:
//   - Render: Produces the DataTables-backed HTML document from report rows.
//   - S3Publisher: Uploads the rendered document to a fixed bucket under
//     "{label}.html" with public-read access, overwriting prior runs.
//
// Report content is operator-trusted registry metadata, so rows are
// interpolated into the document without HTML escaping.
package report
