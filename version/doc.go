// Package version exposes build-time version metadata.
//
// The variables are set with ldflags:
//
//	go build -ldflags "\
//	  -X github.com/ncobase/shopauth/version.Version=1.2.3 \
//	  -X github.com/ncobase/shopauth/version.Branch=main \
//	  -X github.com/ncobase/shopauth/version.Revision=abc123 \
//	  -X 'github.com/ncobase/shopauth/version.BuiltAt=$(date)'"
//
// During development builds the package falls back to reading the
// metadata from git directly.
package version
