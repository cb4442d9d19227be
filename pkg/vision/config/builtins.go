package config

import (
	"fmt"
	"os"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/crft3d/crft/pkg/vision"
)

// build collects the pipeline while the config runs.
type build struct {
	stages  []vision.Stage
	defined bool
}

// sexpStage wraps a vision.Stage so stage forms can be passed to
// (pipeline ...) through the zygomys environment.
type sexpStage struct {
	stage vision.Stage
}

func (s *sexpStage) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(stage %s)", s.stage.Name())
}
func (s *sexpStage) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// kwArgs holds the result of parsing a keyword argument list.
type kwArgs map[string]zygo.Sexp

// parseArgs collects keyword arguments. Stage forms take no positional
// arguments, so a stray positional is an error.
func parseArgs(form string, args []zygo.Sexp) (kwArgs, error) {
	kw := make(kwArgs)
	i := 0
	for i < len(args) {
		str, ok := args[i].(*zygo.SexpStr)
		if !ok || len(str.S) <= len(kwPrefix) || str.S[:len(kwPrefix)] != kwPrefix {
			return nil, fmt.Errorf("%s: unexpected argument %s", form, args[i].SexpString(nil))
		}
		name := str.S[len(kwPrefix):]
		if i+1 >= len(args) {
			return nil, fmt.Errorf("%s: keyword :%s has no value", form, name)
		}
		kw[name] = args[i+1]
		i += 2
	}
	return kw, nil
}

// toInt extracts an integer from a Sexp.
func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the config DSL builtins into a zygomys
// environment. Stage forms construct stages; (pipeline ...) fixes their
// order and publishes the result into b.
//
// Source must be preprocessed with preprocessSource() first so that
// :keyword tokens and kebab-case names are recognizable.
func registerBuiltins(env *zygo.Zlisp, b *build) {

	stage := func(s vision.Stage) (zygo.Sexp, error) {
		return &sexpStage{stage: s}, nil
	}

	// -----------------------------------------------------------------------
	// (grayscale), (invert), (sobel)
	// -----------------------------------------------------------------------
	env.AddFunction("grayscale", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if _, err := parseArgs("grayscale", args); err != nil {
			return zygo.SexpNull, err
		}
		return stage(vision.NewGrayscale())
	})

	env.AddFunction("invert", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if _, err := parseArgs("invert", args); err != nil {
			return zygo.SexpNull, err
		}
		return stage(vision.NewInvert())
	})

	env.AddFunction("sobel", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if _, err := parseArgs("sobel", args); err != nil {
			return zygo.SexpNull, err
		}
		return stage(vision.NewSobel())
	})

	// -----------------------------------------------------------------------
	// (threshold :level 128)
	// -----------------------------------------------------------------------
	env.AddFunction("threshold", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		kw, err := parseArgs("threshold", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		level := 128
		if v, ok := kw["level"]; ok {
			level, err = toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("threshold: level: %w", err)
			}
			if level < 0 || level > 255 {
				return zygo.SexpNull, fmt.Errorf("threshold: level %d out of range [0,255]", level)
			}
		}
		return stage(vision.NewThreshold(uint8(level)))
	})

	// -----------------------------------------------------------------------
	// (box-blur :radius 2)
	//
	// Registered as "box_blur"; the preprocessor converts box-blur in
	// the source.
	// -----------------------------------------------------------------------
	env.AddFunction("box_blur", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		kw, err := parseArgs("box-blur", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		radius := 1
		if v, ok := kw["radius"]; ok {
			radius, err = toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("box-blur: radius: %w", err)
			}
		}
		s, err := vision.NewBoxBlur(radius)
		if err != nil {
			return zygo.SexpNull, err
		}
		return stage(s)
	})

	// -----------------------------------------------------------------------
	// (detect-faces :cascade "models/facefinder")
	// -----------------------------------------------------------------------
	env.AddFunction("detect_faces", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		kw, err := parseArgs("detect-faces", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		v, ok := kw["cascade"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("detect-faces: :cascade is required")
		}
		path, err := toString(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("detect-faces: cascade: %w", err)
		}
		cascade, err := os.ReadFile(path)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("detect-faces: read cascade: %w", err)
		}
		s, err := vision.NewFaceDetector(cascade)
		if err != nil {
			return zygo.SexpNull, err
		}
		return stage(s)
	})

	// -----------------------------------------------------------------------
	// (pipeline (grayscale) (box-blur :radius 2) ...)
	// -----------------------------------------------------------------------
	env.AddFunction("pipeline", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if b.defined {
			return zygo.SexpNull, fmt.Errorf("config defines more than one pipeline")
		}
		var stages []vision.Stage
		for i, a := range args {
			s, ok := a.(*sexpStage)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("pipeline: element %d is not a stage: %s",
					i+1, a.SexpString(nil))
			}
			stages = append(stages, s.stage)
		}
		b.stages = stages
		b.defined = true
		return zygo.SexpNull, nil
	})
}
