// Package sanitizer normalizes user input before validation and storage.
//
// All functions are idempotent. Invalid input yields an empty value rather
// than an error, leaving the decision to the validators.
//
// Normalization includes:
//   - Strings: collapse whitespace, trim leading/trailing spaces
//   - Emails: trim and lowercase
//   - Phone numbers: E.164, parsed against the club's region
//   - Id lists: trim, drop empties and duplicates, keep first-seen order
package sanitizer
