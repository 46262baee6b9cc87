// Package filesystem provides filesystem abstraction interfaces and implementations.
//
// This package defines interfaces for the file and directory operations the
// encoding tools need, enabling testability through in-memory implementations
// while maintaining compatibility with the OS filesystem.
//
// Key interfaces:
//   - FileSystemProvider: Lists directories, stats paths, reads and opens files
//   - File: An open file usable as a pep263.Stream
//   - FileInfo: File metadata similar to os.FileInfo
//
// Implementations:
//   - OSFileSystem: Production implementation using the OS filesystem
//   - MemoryFileSystem: In-memory implementation for testing, including
//     permission and symlink scenarios that are awkward to reproduce on disk
//   - FSProvider: Read-only adapter over any fs.FS, such as embed.FS, or
//     over os.DirFS for runs that never write
//   - MemoryStream: A standalone in-memory pep263.Stream
//
// Errors returned by providers wrap the pep263 sentinels (ErrNotFound,
// ErrPermissionDenied, ErrIsADirectory, ErrNotADirectory), so callers can
// classify failures with errors.Is regardless of the backing store.
package filesystem
