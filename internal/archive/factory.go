// Package archive selects snapshot archival backends by environment
// configuration.
package archive

import (
	"context"
	"fmt"
	"os"

	"recordstore/internal/archive/core"
	"recordstore/internal/infra/archive/fs"
	"recordstore/internal/infra/archive/memory"
	"recordstore/internal/infra/archive/s3"
)

// Store re-exports the archive backend contract.
type Store = core.Store

// Info re-exports archive object metadata.
type Info = core.Info

// Driver re-exports the backend identifier type.
type Driver = core.Driver

// Open selects an archive backend using environment variables.
//
//	RECORDSTORE_ARCHIVE_DRIVER: fs|s3|memory (default fs)
//	RECORDSTORE_ARCHIVE_FS_ROOT: directory root when driver=fs (default ./archivedata)
//	(S3 specific variables documented in the s3 package)
func Open(ctx context.Context) (Store, error) {
	driver := os.Getenv("RECORDSTORE_ARCHIVE_DRIVER")
	if driver == "" {
		driver = string(core.DriverFilesystem)
	}
	switch core.Driver(driver) {
	case core.DriverFilesystem:
		return fs.New(os.Getenv("RECORDSTORE_ARCHIVE_FS_ROOT"))
	case core.DriverS3:
		return s3.OpenFromEnv(ctx)
	case core.DriverMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown archive driver %s", driver)
	}
}
