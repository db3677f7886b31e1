package plugin

import (
	"os/exec"
	"path/filepath"
)

// Interpreter resolves how a hook script is launched
type Interpreter struct {
	PythonRunner      string // fast runner tried first, e.g. uv
	PythonInterpreter string // fallback, e.g. python3
	lookPath          func(string) (string, error)
}

// NewInterpreter creates an interpreter resolver using exec.LookPath
func NewInterpreter(runner, interpreter string) Interpreter {
	return Interpreter{
		PythonRunner:      runner,
		PythonInterpreter: interpreter,
		lookPath:          exec.LookPath,
	}
}

// Command returns the program and arguments that run scriptPath for a plugin language
func (i Interpreter) Command(language Language, scriptPath string) (string, []string) {
	switch language {
	case LanguagePython:
		return i.python(scriptPath)
	case LanguageRust, LanguageGo:
		return scriptPath, nil
	default:
		switch filepath.Ext(scriptPath) {
		case ".py":
			return i.python(scriptPath)
		case ".sh":
			return "sh", []string{scriptPath}
		default:
			return scriptPath, nil
		}
	}
}

func (i Interpreter) python(scriptPath string) (string, []string) {
	if i.PythonRunner != "" && i.lookPath != nil {
		if _, err := i.lookPath(i.PythonRunner); err == nil {
			return i.PythonRunner, []string{"run", "python", scriptPath}
		}
	}

	interpreter := i.PythonInterpreter
	if interpreter == "" {
		interpreter = "python3"
	}
	return interpreter, []string{scriptPath}
}
