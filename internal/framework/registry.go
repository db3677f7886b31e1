package framework

import (
	"fmt"
	"sort"
	"sync"
)

var (
	frameworks = make(map[string]HookFramework)
	mu         sync.RWMutex
)

// RegisterFramework registers a hook framework implementation under its name
func RegisterFramework(framework HookFramework) {
	mu.Lock()
	defer mu.Unlock()
	frameworks[framework.GetName()] = framework
}

// GetFramework retrieves a registered framework by name
func GetFramework(name string) (HookFramework, error) {
	mu.RLock()
	defer mu.RUnlock()

	framework, ok := frameworks[name]
	if !ok {
		return nil, fmt.Errorf("framework %q not registered; available frameworks: %v", name, listLocked())
	}

	return framework, nil
}

// ListFrameworks returns the registered framework names in sorted order
func ListFrameworks() []string {
	mu.RLock()
	defer mu.RUnlock()
	return listLocked()
}

func listLocked() []string {
	names := make([]string, 0, len(frameworks))
	for name := range frameworks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
