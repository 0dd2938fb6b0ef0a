package autotools_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ndkdeps/internal/adapters/autotools"
	"go.trai.ch/ndkdeps/internal/core/domain"
	"go.trai.ch/ndkdeps/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func newRequest(t *testing.T, abi string, withConfigure bool) *domain.BuildRequest {
	t.Helper()

	root := t.TempDir()
	src := filepath.Join(root, "libass-0.17.3")
	require.NoError(t, os.MkdirAll(src, 0o755))
	if withConfigure {
		require.NoError(t, os.WriteFile(filepath.Join(src, "configure"), []byte("#!/bin/sh\n"), 0o600))
	}

	var target domain.Target
	for _, tgt := range domain.DefaultTargets() {
		if tgt.ABI == abi {
			target = tgt
		}
	}

	layout := domain.Layout{BuildRoot: root}
	return &domain.BuildRequest{
		Project: &domain.Project{
			Name:        "ass",
			BuildSystem: domain.BuildSystemAutotools,
			Flags:       []string{"--enable-fontconfig", "--enable-libunibreak"},
			ABIFlags: map[string][]string{
				"arm64-v8a": {"--enable-asm"},
				"x86":       {"--enable-asm"},
				"x86-64":    {"--enable-asm"},
			},
		},
		Target:    target,
		Env:       domain.NewToolchainEnvironment(target, 21, "/tc", layout.StagingPrefix(abi)),
		SourceDir: src,
	}
}

func TestBuilder_Build_Configured(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	req := newRequest(t, "arm64-v8a", true)
	wantEnv := req.Env.Environ()

	mockExecutor := mocks.NewMockExecutor(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)

	var got [][]string
	mockExecutor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, cmd *domain.Command, env []string) error {
			assert.Equal(t, req.SourceDir, cmd.Dir)
			assert.Equal(t, wantEnv, env)
			got = append(got, cmd.Args)
			return nil
		}).Times(4)

	b := autotools.NewBuilder(mockExecutor, mockLogger)
	require.NoError(t, b.Build(context.Background(), req))

	assert.Equal(t, [][]string{
		{
			"./configure", "--host=aarch64-linux-android", "--enable-shared", "--disable-static", "--with-pic",
			"--prefix=" + req.Env.Prefix, "--enable-fontconfig", "--enable-libunibreak", "--enable-asm",
		},
		{"make"},
		{"make", "install"},
		{"make", "distclean"},
	}, got)
}

func TestBuilder_Build_Autogen(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	req := newRequest(t, "armeabi-v7a", false)

	mockExecutor := mocks.NewMockExecutor(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Info(gomock.Any()).Times(1)

	var got [][]string
	mockExecutor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, cmd *domain.Command, _ []string) error {
			got = append(got, cmd.Args)
			return nil
		}).Times(5)

	b := autotools.NewBuilder(mockExecutor, mockLogger)
	require.NoError(t, b.Build(context.Background(), req))

	require.Len(t, got, 5)
	assert.Equal(t, []string{"./autogen.sh"}, got[0])
	// armeabi-v7a has no ABI flags: global flags only.
	assert.Equal(t, []string{
		"./configure", "--host=armv7a-linux-androideabi", "--enable-shared", "--disable-static", "--with-pic",
		"--prefix=" + req.Env.Prefix, "--enable-fontconfig", "--enable-libunibreak",
	}, got[1])
}

func TestBuilder_Build_ConfigureDirectoryIsNotAScript(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	req := newRequest(t, "x86", false)
	require.NoError(t, os.Mkdir(filepath.Join(req.SourceDir, "configure"), 0o755))

	mockExecutor := mocks.NewMockExecutor(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Info(gomock.Any()).Times(1)

	var stages []domain.Stage
	mockExecutor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, cmd *domain.Command, _ []string) error {
			stages = append(stages, cmd.Stage)
			return nil
		}).Times(5)

	require.NoError(t, autotools.NewBuilder(mockExecutor, mockLogger).Build(context.Background(), req))
	assert.Equal(t, []domain.Stage{
		domain.StageAutogen, domain.StageConfigure, domain.StageCompile, domain.StageInstall, domain.StageClean,
	}, stages)
}

func TestBuilder_Build_StopsOnFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	req := newRequest(t, "x86-64", true)

	mockExecutor := mocks.NewMockExecutor(ctrl)
	mockExecutor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("exit status 77")).Times(1)

	b := autotools.NewBuilder(mockExecutor, mocks.NewMockLogger(ctrl))
	err := b.Build(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBuildToolFailed))

	var zErr *zerr.Error
	require.True(t, errors.As(err, &zErr))
	assert.Equal(t, "configure", zErr.Metadata()["stage"])
}
