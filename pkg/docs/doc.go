// Package docs defines the review domain: documents, annotations, and the
// typed relationships between documents.
//
// # Core Types
//
//   - [Document]: an uploaded file plus its review state (tags, status,
//     flags) and the analysis results (summary, key points, entities)
//   - [Annotation]: a reviewer note anchored to a page region
//   - [Relationship]: a typed, weighted link between two documents
//   - [Archive]: metadata for an uploaded ZIP archive
//
// # Categories
//
// [CategoryOf] maps a free-text file type (a MIME type or an extension) to
// one of the coarse categories used for graph glyphs and list filters:
//
//	docs.CategoryOf("application/pdf")         // docs.CategoryPDF
//	docs.CategoryOf("application/msword")      // docs.CategoryDoc
//	docs.CategoryOf("message/rfc822")          // docs.CategoryEmail
//	docs.CategoryOf("image/png")               // docs.CategoryGeneric
//
// # Filtering
//
// [Filter] applies the list filters of the review UI (name query, upload
// date range, type, tag, status, and review flags) to a document slice.
//
// # Concurrency
//
// Values in this package are plain data and are not safe for concurrent
// mutation. Stores hand out copies.
package docs
