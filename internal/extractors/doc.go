// Package extractors provides format-specific text extraction and the
// content-type dispatch registry.
//
// Each supported format lives in its own subpackage and implements the
// driven.Extractor interface: pdf, word (DOCX), spreadsheet (XLSX),
// plaintext and image (OCR). Store-proprietary document types that require
// an export round trip are registered as export routes wrapping one of the
// byte-level extractors.
package extractors
