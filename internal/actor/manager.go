package actor

import (
	"github.com/duke-git/lancet/v2/maputil"
	"golang.org/x/exp/slices"
)

// Manager 按名字管理进程
type Manager struct {
	nameDict *maputil.ConcurrentMap[string, IProcess]
}

func NewNameManager() *Manager {
	return &Manager{
		nameDict: maputil.NewConcurrentMap[string, IProcess](16),
	}
}

// Add 注册进程，名字已存在时返回 false
func (mgr *Manager) Add(name string, process IProcess) bool {
	_, loaded := mgr.nameDict.GetOrSet(name, process)
	return !loaded
}

func (mgr *Manager) HasName(name string) bool {
	return mgr.nameDict.Has(name)
}

func (mgr *Manager) GetProcess(name string) IProcess {
	if name == "" {
		return nil
	}
	process, _ := mgr.nameDict.Get(name)
	return process
}

func (mgr *Manager) Remove(name string) {
	mgr.nameDict.Delete(name)
}

// Names 已注册的名字，按字典序
func (mgr *Manager) Names() []string {
	var names []string
	mgr.nameDict.Range(func(name string, _ IProcess) bool {
		names = append(names, name)
		return true
	})
	slices.Sort(names)
	return names
}

func (mgr *Manager) GetAllProcesses() []IProcess {
	var processes []IProcess
	mgr.nameDict.Range(func(_ string, value IProcess) bool {
		processes = append(processes, value)
		return true
	})
	return processes
}
