package mount

import (
	"testing"

	"github.com/kylelemons/godebug/pretty"

	"github.com/UIT-INF-2203/munix-2026/chrdev"
	"github.com/UIT-INF-2203/munix-2026/kerrno"
	"github.com/UIT-INF-2203/munix-2026/vfs"
)

func fakeFS(name string) *vfs.FSOps {
	fops := &vfs.FileOps{
		Name: name,
		OpenPath: func(f *vfs.File, sb *vfs.Superblock, relpath string) kerrno.Status {
			f.Stat.Type = vfs.Reg
			f.Data = relpath
			return kerrno.OK
		},
	}
	return &vfs.FSOps{Name: name, FileFileOp: fops}
}

func TestJoin(t *testing.T) {
	cases := []struct{ cwd, path, want string }{
		{"/", "bin", "/bin"},
		{"/bin", "hello", "/bin/hello"},
		{"/bin/", "hello", "/bin/hello"},
		{"/bin", "/etc/passwd", "/etc/passwd"},
		{"", "bin", "bin"},
	}
	for _, c := range cases {
		if got := Join(c.cwd, c.path); got != c.want {
			t.Errorf("Join(%q, %q) = %q, want %q", c.cwd, c.path, got, c.want)
		}
	}
}

func TestStripPrefix(t *testing.T) {
	cases := []struct {
		p, prefix, want string
		ok              bool
	}{
		{"/bin/hello", "/bin", "hello", true},
		{"/bin", "/bin", "", true},
		{"/bin/hello", "/", "bin/hello", true},
		{"/etc/passwd", "/bin", "", false},
	}
	for _, c := range cases {
		got, ok := StripPrefix(c.p, c.prefix)
		if ok != c.ok || got != c.want {
			t.Errorf("StripPrefix(%q, %q) = (%q, %v), want (%q, %v)", c.p, c.prefix, got, ok, c.want, c.ok)
		}
	}
}

func TestBasename(t *testing.T) {
	cases := []struct{ p, want string }{
		{"/", "/"},
		{"/bin/hello", "hello"},
		{"/bin/hello/", "hello"},
		{"hello", "hello"},
		{"", ""},
	}
	for _, c := range cases {
		if got := Basename(c.p); got != c.want {
			t.Errorf("Basename(%q) = %q, want %q", c.p, got, c.want)
		}
	}
}

func TestMountInsertsSortedAndFindsLongestPrefix(t *testing.T) {
	var fsReg chrdev.FSRegistry
	fsReg.Register(1, fakeFS("root-fs"))
	fsReg.Register(2, fakeFS("bin-fs"))

	tbl := NewTable(&fsReg)
	if res := tbl.Mount(vfs.MakeDev(3, 0), 1, "/"); res != kerrno.OK {
		t.Fatalf("mount / = %v", res)
	}
	if res := tbl.Mount(vfs.MakeDev(3, 1), 2, "/bin"); res != kerrno.OK {
		t.Fatalf("mount /bin = %v", res)
	}

	sb := tbl.FindMountForPath("/bin/hello")
	if sb == nil || sb.Name != "bin-fs" {
		t.Fatalf("FindMountForPath(/bin/hello) routed to %v, want bin-fs (longest-prefix match)", sb)
	}

	sb = tbl.FindMountForPath("/etc/passwd")
	if sb == nil || sb.Name != "root-fs" {
		t.Fatalf("FindMountForPath(/etc/passwd) routed to %v, want root-fs", sb)
	}
}

func TestFindMountForPathMatchesWithoutSlashBoundary(t *testing.T) {
	var fsReg chrdev.FSRegistry
	fsReg.Register(1, fakeFS("root-fs"))
	fsReg.Register(2, fakeFS("bin-fs"))

	tbl := NewTable(&fsReg)
	tbl.Mount(vfs.MakeDev(3, 0), 1, "/")
	tbl.Mount(vfs.MakeDev(3, 1), 2, "/bin")

	sb := tbl.FindMountForPath("/binfoo")
	if sb == nil || sb.Name != "bin-fs" {
		t.Fatalf("FindMountForPath(/binfoo) routed to %v, want bin-fs (literal prefix match, no slash boundary)", sb)
	}
}

func TestMountUnknownFSType(t *testing.T) {
	var fsReg chrdev.FSRegistry
	tbl := NewTable(&fsReg)
	if res := tbl.Mount(vfs.MakeDev(3, 0), 9, "/"); res != kerrno.ENODEV {
		t.Fatalf("mount unregistered fstype = %v, want ENODEV", res)
	}
}

func TestOpenPathRoutesAndStripsPrefix(t *testing.T) {
	var fsReg chrdev.FSRegistry
	fsReg.Register(1, fakeFS("root-fs"))
	fsReg.Register(2, fakeFS("bin-fs"))

	tbl := NewTable(&fsReg)
	tbl.Mount(vfs.MakeDev(3, 0), 1, "/")
	tbl.Mount(vfs.MakeDev(3, 1), 2, "/bin")

	f, res := tbl.OpenPath("/", "bin/hello")
	if res != kerrno.OK {
		t.Fatalf("OpenPath = %v", res)
	}
	if f.Data.(string) != "hello" {
		t.Fatalf("relpath passed to fs driver = %q, want \"hello\"", f.Data)
	}
}

func TestOpenPathNoMount(t *testing.T) {
	var fsReg chrdev.FSRegistry
	tbl := NewTable(&fsReg)
	if _, res := tbl.OpenPath("/", "anything"); res != kerrno.ENOENT {
		t.Fatalf("OpenPath with no mounts = %v, want ENOENT", res)
	}
}

func TestDescribeAllListsMountsInOrder(t *testing.T) {
	var fsReg chrdev.FSRegistry
	fsReg.Register(1, fakeFS("root-fs"))
	fsReg.Register(2, fakeFS("bin-fs"))

	tbl := NewTable(&fsReg)
	tbl.Mount(vfs.MakeDev(3, 0), 1, "/")
	tbl.Mount(vfs.MakeDev(3, 1), 2, "/bin")

	want := []string{
		"/          = root-fs (type root-fs)",
		"/bin       = bin-fs (type bin-fs)",
	}
	if diff := pretty.Compare(tbl.DescribeAll(), want); diff != "" {
		t.Fatalf("DescribeAll() mismatch (-got +want):\n%s", diff)
	}
}

func TestStatOpensAndCloses(t *testing.T) {
	var fsReg chrdev.FSRegistry
	fsReg.Register(1, fakeFS("root-fs"))
	tbl := NewTable(&fsReg)
	tbl.Mount(vfs.MakeDev(3, 0), 1, "/")

	st, res := tbl.Stat("/", "bin/hello")
	if res != kerrno.OK || st.Type != vfs.Reg {
		t.Fatalf("Stat = (%v, %v), want (Reg, OK)", st, res)
	}
}
