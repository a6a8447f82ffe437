// Package mount implements munix's superblock pool, mount table, and
// path router, grounded in
// original_source/src/lib/drivers/vfs_fs.c's vfs_mount_list_add and
// find_mount_for_path. The intrusive, reverse-walked linked list of
// the original is replaced by a slice kept sorted ascending by mount
// path — a non-intrusive ordered collection standing in for the
// intrusive list.
package mount

import (
	"fmt"
	"sort"

	"github.com/UIT-INF-2203/munix-2026/chrdev"
	"github.com/UIT-INF-2203/munix-2026/kerrno"
	"github.com/UIT-INF-2203/munix-2026/vfs"
)

// Table is the live set of mounted filesystems, kept sorted ascending
// by MountPath.
type Table struct {
	fsRegistry *chrdev.FSRegistry
	mounts     []*vfs.Superblock
}

// NewTable builds a mount table that resolves filesystem type ids
// against fsRegistry.
func NewTable(fsRegistry *chrdev.FSRegistry) *Table {
	return &Table{fsRegistry: fsRegistry}
}

// Mount opens bdev as a filesystem of type fstypeid and inserts its
// superblock at mountPath in sorted position.
func (t *Table) Mount(bdev vfs.DevNum, fstypeid uint8, mountPath string) kerrno.Status {
	ops := t.fsRegistry.Lookup(fstypeid)
	if ops == nil {
		return kerrno.ENODEV
	}

	sb := &vfs.Superblock{
		BDev:      bdev,
		Name:      ops.Name,
		MountPath: mountPath,
		Ops:       ops,
	}
	if ops.SBOpen != nil {
		if res := ops.SBOpen(sb); !res.Ok() {
			return res
		}
	}

	i := sort.Search(len(t.mounts), func(i int) bool {
		return t.mounts[i].MountPath > mountPath
	})
	t.mounts = append(t.mounts, nil)
	copy(t.mounts[i+1:], t.mounts[i:])
	t.mounts[i] = sb
	return kerrno.OK
}

// FindMountForPath scans the table in reverse (descending mount path
// order) and returns the first mount whose path is a literal prefix
// of abspath, giving longest-prefix match. Matches
// find_mount_for_path's strstr(abspath, mountpath) == abspath check:
// no slash-boundary is required, so a mount at "/bin" also claims
// "/binfoo".
func (t *Table) FindMountForPath(abspath string) *vfs.Superblock {
	for i := len(t.mounts) - 1; i >= 0; i-- {
		if isPathPrefix(t.mounts[i].MountPath, abspath) {
			return t.mounts[i]
		}
	}
	return nil
}

func isPathPrefix(prefix, path string) bool {
	if prefix == "/" {
		return true
	}
	return len(path) >= len(prefix) && path[:len(prefix)] == prefix
}

// OpenPath joins cwd and path, routes the result to a mount, strips
// the mountpath prefix, and opens the remainder through the
// filesystem's operations table, mirroring file_open_path.
func (t *Table) OpenPath(cwd, path string) (*vfs.File, kerrno.Status) {
	abs := Join(cwd, path)
	sb := t.FindMountForPath(abs)
	if sb == nil {
		return nil, kerrno.ENOENT
	}
	if sb.Ops == nil || sb.Ops.FileFileOp == nil || sb.Ops.FileFileOp.OpenPath == nil {
		return nil, kerrno.ENOTSUP
	}

	rel, ok := StripPrefix(abs, sb.MountPath)
	if !ok {
		return nil, kerrno.ENOENT
	}

	f := &vfs.File{}
	if res := sb.Ops.FileFileOp.OpenPath(f, sb, rel); !res.Ok() {
		return nil, res
	}
	return f, kerrno.OK
}

// DescribeAll renders one line per mount ("mountpath = name (type
// fstype)"), in list order, for the shell's "mount" built-in.
func (t *Table) DescribeAll() []string {
	lines := make([]string, len(t.mounts))
	for i, sb := range t.mounts {
		fsName := ""
		if sb.Ops != nil {
			fsName = sb.Ops.Name
		}
		lines[i] = fmt.Sprintf("%-10s = %s (type %s)", sb.MountPath, sb.Name, fsName)
	}
	return lines
}

// Stat opens cwd/path, snapshots its metadata, and closes it.
func (t *Table) Stat(cwd, path string) (vfs.FStat, kerrno.Status) {
	f, res := t.OpenPath(cwd, path)
	if !res.Ok() {
		return vfs.FStat{}, res
	}
	defer f.Close()
	return f.Stat, kerrno.OK
}

// Join concatenates cwd and path, mirroring path_join: an
// absolute path (leading '/') is returned verbatim; otherwise cwd and
// path are concatenated with a '/' inserted iff cwd is non-empty and
// does not already end with one.
func Join(cwd, path string) string {
	if len(path) > 0 && path[0] == '/' {
		return path
	}
	if cwd == "" {
		return path
	}
	if cwd[len(cwd)-1] == '/' {
		return cwd + path
	}
	return cwd + "/" + path
}

// StripPrefix returns p with prefix (and a following '/' if present)
// removed, and true; or ("", false) if prefix is not a prefix of p.
func StripPrefix(p, prefix string) (string, bool) {
	if prefix == "/" {
		rest := p
		for len(rest) > 0 && rest[0] == '/' {
			rest = rest[1:]
		}
		return rest, true
	}
	if len(p) < len(prefix) || p[:len(prefix)] != prefix {
		return "", false
	}
	rest := p[len(prefix):]
	if len(rest) > 0 && rest[0] == '/' {
		rest = rest[1:]
	}
	return rest, true
}

// Basename returns the final path segment of p, mirroring
// path_basename: "/" yields "/", trailing slashes are collapsed
// before taking the segment after the last remaining slash.
func Basename(p string) string {
	if p == "" {
		return ""
	}
	end := len(p)
	for end > 1 && p[end-1] == '/' {
		end--
	}
	if end == 1 && p[0] == '/' {
		return "/"
	}
	trimmed := p[:end]
	i := len(trimmed) - 1
	for i >= 0 && trimmed[i] != '/' {
		i--
	}
	return trimmed[i+1:]
}
