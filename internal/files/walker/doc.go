// Package walker discovers candidate source files in a directory tree.
//
// The walker is responsible for:
//   - Recursively listing directories through a filesystem.FileSystemProvider
//   - Selecting regular files whose names end with a configured suffix
//   - Skipping symbolic links, sockets and other non-regular entries
//   - Skipping paths that match doublestar exclusion patterns
//   - Continuing past subdirectories it cannot read, recording them as skipped
//
// Results are returned eagerly. Their order follows the provider's directory
// listing order, which for the OS filesystem is not sorted and may differ
// between platforms.
package walker
