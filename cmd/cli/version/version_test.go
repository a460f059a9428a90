//go:build unit || !integration

package version

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/opengrid-project/gridctl/cmd/util/output"
	"github.com/opengrid-project/gridctl/pkg/logger"
	"github.com/opengrid-project/gridctl/pkg/version"
)

type VersionSuite struct {
	suite.Suite
}

func (s *VersionSuite) SetupTest() {
	logger.ConfigureTestLogging(s.T())
}

func (s *VersionSuite) execute(args ...string) string {
	cmd := NewCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs(args)
	s.Require().NoError(cmd.Execute())
	return buf.String()
}

func (s *VersionSuite) TestTableContainsVersion() {
	out := s.execute()
	s.Contains(out, version.Get().GitVersion)
}

func (s *VersionSuite) TestJSONOutput() {
	out := s.execute("--output", string(output.JSONFormat))

	var parsed version.BuildVersionInfo
	s.Require().NoError(json.Unmarshal([]byte(out), &parsed))
	s.Equal(version.Get().GitVersion, parsed.GitVersion)
	s.Equal(version.Get().GOOS, parsed.GOOS)
}

func TestVersionSuite(t *testing.T) {
	suite.Run(t, new(VersionSuite))
}

func TestRejectsUnknownFormat(t *testing.T) {
	logger.ConfigureTestLogging(t)

	cmd := NewCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--output", "xml"})
	require.Error(t, cmd.Execute())
}
