package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithHeader(t *testing.T) {
	t.Run("sets header", func(t *testing.T) {
		c := &Config{}
		err := WithHeader("Custom header")(c)

		require.NoError(t, err)
		assert.Equal(t, "Custom header", c.Header)
	})

	t.Run("empty header is allowed", func(t *testing.T) {
		c := &Config{Header: "existing"}
		err := WithHeader("")(c)

		require.NoError(t, err)
		assert.Equal(t, "", c.Header)
	})
}

func TestWithTarget(t *testing.T) {
	t.Run("sets target directory", func(t *testing.T) {
		c := &Config{}
		err := WithTarget("./models")(c)

		require.NoError(t, err)
		assert.Equal(t, "./models", c.Target)
	})

	t.Run("empty target returns error", func(t *testing.T) {
		c := &Config{}
		err := WithTarget("")(c)

		require.Error(t, err)
		assert.True(t, IsConfigError(err))
	})
}

func TestWithWorkers(t *testing.T) {
	t.Run("sets worker count", func(t *testing.T) {
		c := &Config{}
		err := WithWorkers(4)(c)

		require.NoError(t, err)
		assert.Equal(t, 4, c.Workers)
	})

	t.Run("non-positive count returns error", func(t *testing.T) {
		c := &Config{}
		err := WithWorkers(0)(c)

		require.Error(t, err)
		assert.True(t, IsConfigError(err))
	})
}

func TestConfigApply(t *testing.T) {
	t.Run("applies all options", func(t *testing.T) {
		c := &Config{}
		err := c.Apply(WithHeader("h"), WithTarget("./out"), WithWorkers(2))

		require.NoError(t, err)
		assert.Equal(t, "h", c.Header)
		assert.Equal(t, "./out", c.Target)
		assert.Equal(t, 2, c.Workers)
	})

	t.Run("stops at first error", func(t *testing.T) {
		c := &Config{}
		err := c.Apply(WithTarget(""), WithHeader("h"))

		require.Error(t, err)
		assert.Empty(t, c.Header)
	})
}

func TestConfigApplyAll(t *testing.T) {
	t.Run("collects all errors", func(t *testing.T) {
		c := &Config{}
		err := c.ApplyAll(WithTarget(""), WithWorkers(-1), WithHeader("h"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Target")
		assert.Contains(t, err.Error(), "Workers")
		assert.Equal(t, "h", c.Header)
	})
}

func TestNewConfig(t *testing.T) {
	t.Run("starts from defaults", func(t *testing.T) {
		c, err := NewConfig(WithTarget("./out"))

		require.NoError(t, err)
		assert.Equal(t, defaultHeader, c.Header)
		assert.Equal(t, "./out", c.Target)
	})

	t.Run("propagates option errors", func(t *testing.T) {
		_, err := NewConfig(WithWorkers(0))

		require.Error(t, err)
		assert.True(t, IsConfigError(err))
	})
}

func TestMustNewConfig(t *testing.T) {
	t.Run("returns config on success", func(t *testing.T) {
		c := MustNewConfig(WithHeader("h"))
		assert.Equal(t, "h", c.Header)
	})

	t.Run("panics on error", func(t *testing.T) {
		assert.Panics(t, func() {
			MustNewConfig(WithTarget(""))
		})
	})
}
