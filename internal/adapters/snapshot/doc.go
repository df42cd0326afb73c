// Package snapshot handles dated census snapshot files on local disk
//
// Design choices:
//   - A snapshot is named <prefix>.<YYYYMMDD>.gz; the date token is both the sort key and the
//     name of the transformed output.
//   - Ordering is a stable sort over the directory listing so equal dates keep listing order.
//   - Decompression streams through a line scanner with a 32MB per-line cap; Spool offers the
//     two-phase form that leaves a <name>.raw file behind.
//   - Outputs go through a Sink: a .part temp file renamed into place on Commit, so a failed
//     transform never leaves a half-written output.
package snapshot
