package compile

import (
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"xcss/config"
	"xcss/source"
	"xcss/state"
)

const outputExt = ".css"

// buildOutputPath returns output file path for compiled source using either
// default naming scheme (document name or source file name) or user-defined
// template, which may produce subdirectories. Every path segment is cleaned
// and, if requested, transliterated.
func buildOutputPath(f *source.File, dst string, env *state.LocalEnv) string {
	defaultFile := cleanPathSegment(defaultName(f), env) + outputExt

	if env.Cfg.Compiler.Output.OutputNameTemplate == "" {
		return filepath.Join(dst, defaultFile)
	}

	expanded, err := expandTemplate(f, config.OutputNameTemplateFieldName, env.Cfg.Compiler.Output.OutputNameTemplate, env.Cfg)
	if err != nil {
		env.Log.Warn("Unable to prepare output filename", zap.Error(err))
		return filepath.Join(dst, defaultFile)
	}

	segments := splitPath(filepath.FromSlash(strings.TrimSpace(expanded)))
	if len(segments) == 0 {
		return filepath.Join(dst, defaultFile)
	}

	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, dst)
	for _, segment := range segments {
		parts = append(parts, cleanPathSegment(segment, env))
	}
	parts[len(parts)-1] += outputExt
	return filepath.Join(parts...)
}

func defaultName(f *source.File) string {
	if f.Name != "" {
		return f.Name
	}
	return strings.TrimSuffix(filepath.Base(f.Path), filepath.Ext(f.Path))
}

// splitPath returns non-empty path segments, "." and ".." are dropped so
// template cannot escape destination directory.
func splitPath(path string) []string {
	var segments []string
	for _, s := range strings.Split(path, string(filepath.Separator)) {
		if s == "" || s == "." || s == ".." {
			continue
		}
		segments = append(segments, s)
	}
	return segments
}

func cleanPathSegment(segment string, env *state.LocalEnv) string {
	if env.Cfg.Compiler.Output.FileNameTransliterate {
		segment = slug.Make(segment)
	}
	return config.CleanFileName(segment)
}
