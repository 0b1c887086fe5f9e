// Package scripting hosts the optional Lua hooks that tune the computer
// opponent without rebuilding the game
package scripting

import (
	"errors"
	"fmt"
	"io/fs"
	"math"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

const defenseErrorFunc = "defense_error"

var ErrMissingFunc = errors.New("lua function not defined")

// Engine wraps one gopher-lua VM
// Game loop goroutine only
type Engine struct {
	vm   *lua.LState
	name string
	log  *zap.Logger
}

// NewEngine compiles and runs src, which must define defense_error
func NewEngine(name string, src []byte, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState(lua.Options{SkipOpenLibs: false})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	if err := vm.DoString(string(src)); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	if vm.GetGlobal(defenseErrorFunc) == lua.LNil {
		vm.Close()
		return nil, fmt.Errorf("%s: %w: %s", name, ErrMissingFunc, defenseErrorFunc)
	}

	log.Debug("loaded lua script", zap.String("file", name))
	return &Engine{vm: vm, name: name, log: log}, nil
}

// Load reads the script at path from fsys
func Load(fsys fs.FS, path string, log *zap.Logger) (*Engine, error) {
	src, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return NewEngine(path, src, log)
}

// DefenseError calls defense_error(base, angle_ratio, distance_ratio, speed)
// and returns its numeric result
func (e *Engine) DefenseError(base, angleRatio, distanceRatio, speed float64) (float64, error) {
	fn := e.vm.GetGlobal(defenseErrorFunc)
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lua.LNumber(base), lua.LNumber(angleRatio), lua.LNumber(distanceRatio), lua.LNumber(speed)); err != nil {
		return 0, fmt.Errorf("lua %s: %w", defenseErrorFunc, err)
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	n, ok := result.(lua.LNumber)
	if !ok {
		return 0, fmt.Errorf("lua %s returned %s, want number", defenseErrorFunc, result.Type())
	}
	v := float64(n)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("lua %s returned %v", defenseErrorFunc, v)
	}
	return v, nil
}

func (e *Engine) Name() string { return e.name }

func (e *Engine) Close() {
	e.vm.Close()
}
