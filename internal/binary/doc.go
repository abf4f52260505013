// Package binary implements the file-level steps of installing a package:
// downloading an artifact, checking its SHA-256 digest, pulling a single
// executable out of an archive and exposing it in the shared bin directory.
//
// # Archives
//
// The archive format is decided from the file name alone:
//
//	.tar.gz  gzip-compressed tar
//	.tar     plain tar
//	.zip     zip
//
// Anything else is rejected with an UnsupportedFormatError before the file is
// opened. Entries are scanned in archive order and the first non-directory
// entry whose base name equals the wanted executable is written to the
// destination directory. Tar entries keep their permission bits, modification
// time and SCHILY.xattr.* extended attributes. Zip entries get the Unix mode
// recorded by Unix and macOS archivers. Zip entries without a recorded Unix
// mode, such as those written on Windows, are extracted with mode 0755 so the
// executable runs. On Windows hosts no mode is applied.
//
// # Exposure
//
// A Linker makes an extracted executable callable from the bin directory.
// SymlinkLinker creates a symbolic link. LauncherLinker is used where
// symlinks are unavailable and writes a pair of launcher scripts instead:
//
//	<name>.bat   for cmd.exe
//	<name>       for POSIX shells such as Git Bash
//
// # Integrity
//
// Verify compares the SHA-256 digest of a downloaded file with the value the
// formula publishes. On mismatch the file is deleted so a corrupt archive is
// never extracted later. An empty expected digest skips the check.
package binary
