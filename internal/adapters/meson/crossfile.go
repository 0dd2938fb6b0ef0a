package meson

import (
	"github.com/go-ini/ini"
	"go.trai.ch/ndkdeps/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	sectionBuiltin     = "built-in options"
	sectionBinaries    = "binaries"
	sectionHostMachine = "host_machine"
)

// HostMachine is the [host_machine] section of a cross file.
type HostMachine struct {
	System    string
	CPUFamily string
	CPU       string
	Endian    string
}

// crossFileOptions keeps '#' and ';' inside values, which are legal in paths.
var crossFileOptions = ini.LoadOptions{IgnoreInlineComment: true}

type keyValue struct {
	key   string
	value string
}

// WriteCrossFile writes the Meson cross file describing target and env to path.
func WriteCrossFile(path string, target domain.Target, env domain.ToolchainEnvironment) error {
	f := ini.Empty(crossFileOptions)

	sections := []struct {
		name string
		keys []keyValue
	}{
		{sectionBuiltin, []keyValue{
			{"buildtype", "debug"},
			{"default_library", "shared"},
			{"wrap_mode", "nodownload"},
			{"c_link_args", env.LDFLAGS},
			{"cpp_link_args", env.LDFLAGS},
			{"prefix", env.Prefix},
			{"pkg_config_path", env.PkgConfigPath},
		}},
		{sectionBinaries, []keyValue{
			{"c", env.CC},
			{"cpp", env.CXX},
			{"ar", env.AR},
			{"as", env.AS},
			{"ld", env.LD},
			{"nm", env.NM},
			{"ranlib", env.RANLIB},
			{"strip", env.STRIP},
			{"yasm", env.YASM},
			{"pkg-config", "pkg-config"},
		}},
		{sectionHostMachine, []keyValue{
			{"system", "android"},
			{"cpu_family", target.CPUFamily},
			{"cpu", target.CPU},
			{"endian", "little"},
		}},
	}

	for _, s := range sections {
		sec, err := f.NewSection(s.name)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to create cross file section"), "section", s.name)
		}
		for _, kv := range s.keys {
			if _, err := sec.NewKey(kv.key, quote(kv.value)); err != nil {
				return zerr.With(zerr.Wrap(err, "failed to add cross file key"), "key", kv.key)
			}
		}
	}

	if err := f.SaveTo(path); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write cross file"), "path", path)
	}
	return nil
}

// ReadHostMachine parses the [host_machine] section of the cross file at path.
func ReadHostMachine(path string) (HostMachine, error) {
	f, err := ini.LoadSources(crossFileOptions, path)
	if err != nil {
		return HostMachine{}, zerr.With(zerr.Wrap(err, "failed to read cross file"), "path", path)
	}

	sec := f.Section(sectionHostMachine)
	return HostMachine{
		System:    sec.Key("system").String(),
		CPUFamily: sec.Key("cpu_family").String(),
		CPU:       sec.Key("cpu").String(),
		Endian:    sec.Key("endian").String(),
	}, nil
}

// quote renders s as a Meson string literal.
func quote(s string) string {
	return "'" + s + "'"
}
