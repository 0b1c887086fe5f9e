package pong

import (
	"errors"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"

	c "github.com/lixenwraith/rally/constants"
	"github.com/lixenwraith/rally/engine"
)

var (
	ErrUnknownKind = errors.New("unknown entity kind")
	ErrEmptyScene  = errors.New("scene has no entities")
)

// EntityDef is one authored scene entry
type EntityDef struct {
	Kind string   `yaml:"kind"`
	Name string   `yaml:"name"`
	Tags []string `yaml:"tags"`
}

// SceneDef lists entities in the order they are added, which is also
// their update and draw order
type SceneDef struct {
	Name     string      `yaml:"name"`
	Entities []EntityDef `yaml:"entities"`
}

type factory func(ctx *engine.Context, aim AimModel) (engine.Entity, error)

var factories = map[string]factory{
	"manager": func(ctx *engine.Context, _ AimModel) (engine.Entity, error) {
		return NewGameManager(ctx), nil
	},
	"background": func(ctx *engine.Context, _ AimModel) (engine.Entity, error) {
		return NewBackground(ctx)
	},
	"score": func(ctx *engine.Context, _ AimModel) (engine.Entity, error) {
		return NewScore(ctx)
	},
	"ball": func(ctx *engine.Context, _ AimModel) (engine.Entity, error) {
		return NewBall(ctx)
	},
	"player": func(ctx *engine.Context, _ AimModel) (engine.Entity, error) {
		return NewPlayerPaddle(ctx)
	},
	"computer": func(ctx *engine.Context, aim AimModel) (engine.Entity, error) {
		return NewComputerPaddle(ctx, aim)
	},
}

// DefaultSceneDef is the standard match layout
func DefaultSceneDef() *SceneDef {
	return &SceneDef{
		Name: "game",
		Entities: []EntityDef{
			{Kind: "manager", Name: c.NameManager},
			{Kind: "background", Name: c.NameBackground},
			{Kind: "score", Name: c.NameScore},
			{Kind: "ball", Name: c.NameBall},
			{Kind: "player", Name: c.NamePlayer, Tags: []string{c.TagPaddle}},
			{Kind: "computer", Name: c.NameComputer, Tags: []string{c.TagPaddle}},
		},
	}
}

// ParseSceneDef decodes and validates a YAML scene
func ParseSceneDef(data []byte) (*SceneDef, error) {
	var def SceneDef
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	if len(def.Entities) == 0 {
		return nil, ErrEmptyScene
	}
	for i, e := range def.Entities {
		if _, ok := factories[e.Kind]; !ok {
			return nil, fmt.Errorf("scene entity %d: %w: %q", i, ErrUnknownKind, e.Kind)
		}
	}
	if def.Name == "" {
		def.Name = "game"
	}
	return &def, nil
}

// LoadSceneDef reads a YAML scene from fsys
func LoadSceneDef(fsys fs.FS, path string) (*SceneDef, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	return ParseSceneDef(data)
}

// GameScene builds the entities of a SceneDef when activated
type GameScene struct {
	def *SceneDef
	aim AimModel
}

// NewScene wraps def in an engine scene; aim may be nil for the builtin
func NewScene(def *SceneDef, aim AimModel) *engine.Scene {
	return engine.NewScene(def.Name, &GameScene{def: def, aim: aim})
}

func (g *GameScene) LoadEntities(s *engine.Scene, ctx *engine.Context) error {
	for _, d := range g.def.Entities {
		build, ok := factories[d.Kind]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownKind, d.Kind)
		}
		e, err := build(ctx, g.aim)
		if err != nil {
			return fmt.Errorf("build %s %q: %w", d.Kind, d.Name, err)
		}
		b := e.Entity()
		b.SetName(d.Name)
		for _, tag := range d.Tags {
			b.AddTag(tag)
		}
		s.Add(e)
	}
	return nil
}
