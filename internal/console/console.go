//go:build windows

// Package console handles Windows console quirks for the inspector: telling
// a terminal launch apart from a double-click, and Ctrl+C delivery that
// keeps working while SDL holds the locked OS thread.
package console

import (
	"os"
	"strings"
	"sync/atomic"
	"syscall"
	"unsafe"
)

var (
	kernel32                       = syscall.NewLazyDLL("kernel32.dll")
	procGetConsoleWindow           = kernel32.NewProc("GetConsoleWindow")
	procAllocConsole               = kernel32.NewProc("AllocConsole")
	procFreeConsole                = kernel32.NewProc("FreeConsole")
	procGetStdHandle               = kernel32.NewProc("GetStdHandle")
	procCreateToolhelp32Snapshot   = kernel32.NewProc("CreateToolhelp32Snapshot")
	procProcess32First             = kernel32.NewProc("Process32First")
	procProcess32Next              = kernel32.NewProc("Process32Next")
	procOpenProcess                = kernel32.NewProc("OpenProcess")
	procQueryFullProcessImageNameW = kernel32.NewProc("QueryFullProcessImageNameW")
	procSetConsoleCtrlHandler      = kernel32.NewProc("SetConsoleCtrlHandler")
)

const (
	th32csSnapProcess       = 0x00000002
	processQueryLimitedInfo = 0x1000
	maxPath                 = 260
	ctrlCEvent              = 0
	ctrlBreakEvent          = 1
	stdInputHandle          = ^uint32(0) - 10 + 1
	stdOutputHandle         = ^uint32(0) - 11 + 1
	stdErrorHandle          = ^uint32(0) - 12 + 1
)

type processEntry32 struct {
	Size            uint32
	Usage           uint32
	ProcessID       uint32
	DefaultHeapID   uintptr
	ModuleID        uint32
	Threads         uint32
	ParentProcessID uint32
	PriClassBase    int32
	Flags           uint32
	ExeFile         [maxPath]uint16
}

// IsRunningFromConsole reports whether the process should behave as a
// terminal program. GUI-mode builds launched from a terminal get a console
// allocated and std streams redirected; console-mode builds that were
// double-clicked get their auto-created console freed and report false.
func IsRunningFromConsole() bool {
	if hasConsoleWindow() {
		if launchedFromExplorer() {
			procFreeConsole.Call()
			return false
		}
		return true
	}

	if launchedFromExplorer() {
		return false
	}

	// GUI-mode build started from a terminal. AttachConsole would share
	// input with the parent shell, so allocate a separate console.
	procAllocConsole.Call()
	redirectStdStreams()
	return true
}

func hasConsoleWindow() bool {
	hwnd, _, _ := procGetConsoleWindow.Call()
	return hwnd != 0
}

// Go's os.Std* files are captured at startup, so they must be rebuilt after
// AllocConsole.
func redirectStdStreams() {
	stdout, _, _ := procGetStdHandle.Call(uintptr(stdOutputHandle))
	stderr, _, _ := procGetStdHandle.Call(uintptr(stdErrorHandle))
	stdin, _, _ := procGetStdHandle.Call(uintptr(stdInputHandle))
	if stdout == 0 || stderr == 0 {
		return
	}
	os.Stdout = os.NewFile(stdout, "/dev/stdout")
	os.Stderr = os.NewFile(stderr, "/dev/stderr")
	if stdin != 0 {
		os.Stdin = os.NewFile(stdin, "/dev/stdin")
	}
}

func launchedFromExplorer() bool {
	parent := parentProcessID(os.Getpid())
	if parent == 0 {
		return false
	}
	name := processImageName(parent)
	if name == "" {
		return false
	}
	if i := strings.LastIndexAny(name, `\/`); i >= 0 {
		name = name[i+1:]
	}
	return strings.EqualFold(name, "explorer.exe")
}

func parentProcessID(pid int) int {
	snapshot, _, _ := procCreateToolhelp32Snapshot.Call(uintptr(th32csSnapProcess), 0)
	if snapshot == uintptr(syscall.InvalidHandle) {
		return 0
	}
	defer syscall.CloseHandle(syscall.Handle(snapshot))

	var entry processEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))
	ret, _, _ := procProcess32First.Call(snapshot, uintptr(unsafe.Pointer(&entry)))
	for ret != 0 {
		if int(entry.ProcessID) == pid {
			return int(entry.ParentProcessID)
		}
		ret, _, _ = procProcess32Next.Call(snapshot, uintptr(unsafe.Pointer(&entry)))
	}
	return 0
}

func processImageName(pid int) string {
	h, _, _ := procOpenProcess.Call(uintptr(processQueryLimitedInfo), 0, uintptr(pid))
	if h == 0 {
		return ""
	}
	defer syscall.CloseHandle(syscall.Handle(h))

	var buf [maxPath]uint16
	size := uint32(maxPath)
	ret, _, _ := procQueryFullProcessImageNameW.Call(h, 0,
		uintptr(unsafe.Pointer(&buf[0])), uintptr(unsafe.Pointer(&size)))
	if ret == 0 {
		return ""
	}
	return syscall.UTF16ToString(buf[:size])
}

type ctrlHandler struct {
	closed   int32
	shutdown chan struct{}
	callback uintptr
}

var handler *ctrlHandler

// SetupHandler installs a Windows console control handler that closes
// shutdown on Ctrl+C or Ctrl+Break. Needed because Go's os.Interrupt
// delivery is unreliable once SDL locks the main OS thread. The returned
// function re-registers the handler; call it after library init, since SDL
// replaces console handlers during its own setup.
func SetupHandler(shutdown chan struct{}) func() {
	handler = &ctrlHandler{shutdown: shutdown}
	handler.callback = syscall.NewCallback(func(ctrlType uint32) uintptr {
		if ctrlType == ctrlCEvent || ctrlType == ctrlBreakEvent {
			if atomic.CompareAndSwapInt32(&handler.closed, 0, 1) {
				close(handler.shutdown)
			}
			return 1
		}
		return 0
	})

	register := func() {
		if handler != nil {
			procSetConsoleCtrlHandler.Call(handler.callback, 1)
		}
	}
	register()
	return register
}
