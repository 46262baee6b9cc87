// Package declaration reads and writes PEP-263 encoding declarations.
//
// A Scanner looks at no more than the first two lines of a stream and reports
// whether they declare an encoding. A Writer inserts or replaces the
// declaration in canonical form, putting it after a shebang line when one is
// present. Both work on any pep263.Stream; ScanFile and WriteFile open files
// through a filesystem.FileSystemProvider and turn I/O failures into report
// categories instead of errors.
package declaration
