package png

import (
	"bufio"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrSinkUnavailable is returned by EncodeFile if the destination can not be
// created or replaced.
var ErrSinkUnavailable = errors.New("output unavailable")

// EncodeFile encodes the image into the file at path, replacing it if it
// exists.
//
// The image is first written to a new file next to path, which is renamed
// to path once complete. If anything fails, that file is removed again, so
// path is either left untouched or holds the full image.
//
// An existing path has to be a regular file the caller may write to, or a
// symlink to one; symlinks are followed and the target is replaced. The
// permission bits of a replaced file are kept, its owner becomes the
// caller.
func EncodeFile(path string, width, height int, pix []byte, alpha bool) (err error) {
	if err := validate(width, height, pix, alpha); err != nil {
		return err
	}

	path, perm, exists, err := destination(path)
	if err != nil {
		return err
	}

	dir, base := filepath.Split(path)
	tmp := filepath.Join(dir, "."+base+"."+uuid.NewString()+".tmp")
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return errors.Wrapf(ErrSinkUnavailable, "%v", err)
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmp)
		}
	}()

	if exists {
		// Not subject to the umask, unlike the mode passed to OpenFile.
		if err = f.Chmod(perm); err != nil {
			return errors.Wrapf(err, "chmod %s", tmp)
		}
	}

	bw := bufio.NewWriter(f)
	if err = Encode(bw, width, height, pix, alpha); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	if err = bw.Flush(); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	if err = f.Close(); err != nil {
		return errors.Wrapf(err, "close %s", path)
	}
	if err = os.Rename(tmp, path); err != nil {
		return errors.Wrapf(ErrSinkUnavailable, "%v", err)
	}
	return nil
}

// destination resolves the file EncodeFile replaces and the permissions the
// new file gets. It fails if path exists but can not be opened for writing.
func destination(path string) (target string, perm os.FileMode, exists bool, err error) {
	fi, err := os.Lstat(path)
	if os.IsNotExist(err) {
		return path, 0666, false, nil
	}
	if err != nil {
		return "", 0, false, errors.Wrapf(ErrSinkUnavailable, "%v", err)
	}
	if fi.Mode()&os.ModeSymlink != 0 {
		if path, err = filepath.EvalSymlinks(path); err != nil {
			return "", 0, false, errors.Wrapf(ErrSinkUnavailable, "%v", err)
		}
		if fi, err = os.Stat(path); err != nil {
			return "", 0, false, errors.Wrapf(ErrSinkUnavailable, "%v", err)
		}
	}
	if !fi.Mode().IsRegular() {
		return "", 0, false, errors.Wrapf(ErrSinkUnavailable, "%s is not a regular file", path)
	}
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return "", 0, false, errors.Wrapf(ErrSinkUnavailable, "%v", err)
	}
	f.Close()
	return path, fi.Mode().Perm(), true, nil
}
