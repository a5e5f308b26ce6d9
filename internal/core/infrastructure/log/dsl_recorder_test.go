package log

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logconfig "github.com/weisyn/rovclock/internal/config/log"
	"github.com/weisyn/rovclock/pkg/types"
)

type fixedDSL struct {
	s   string
	err error
}

func (f fixedDSL) DSLString() (string, error) { return f.s, f.err }

func TestDSLRecorder(t *testing.T) {
	t.Run("写入记录行", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewDSLRecorderWriter(&buf, fixedDSL{s: "2024/07/04 13:45:30.500"})

		require.NoError(t, r.Record("MODE", "system -> renav"))
		require.NoError(t, r.Recordf("RENAV", "%.3f", 1720100730.5))

		assert.Equal(t,
			"MODE 2024/07/04 13:45:30.500 system -> renav\n"+
				"RENAV 2024/07/04 13:45:30.500 1720100730.500\n",
			buf.String())
		assert.NoError(t, r.Close())
	})

	t.Run("时钟读取失败时不写入", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewDSLRecorderWriter(&buf, fixedDSL{err: errors.New("clock read failed")})

		assert.Error(t, r.Record("MODE", "x"))
		assert.Empty(t, buf.String())
	})

	t.Run("轮转文件", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "records", "dsl.log")
		opts := logconfig.New(&types.UserLogConfig{DSLFilePath: types.StringPtr(path)}).GetOptions()

		r, err := NewDSLRecorder(opts, fixedDSL{s: "1970/01/01 00:00:00.000"})
		require.NoError(t, err)
		require.NoError(t, r.Record("START", "rovclock"))
		require.NoError(t, r.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "START 1970/01/01 00:00:00.000 rovclock\n", string(data))
	})
}
