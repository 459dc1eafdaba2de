package wrappers_test

import (
	"testing"

	"github.com/hanpama/gqlshape/internal/canonical"
	"github.com/hanpama/gqlshape/internal/decode"
	"github.com/hanpama/gqlshape/internal/hostlang"
	"github.com/hanpama/gqlshape/internal/wrappers"
	"github.com/stretchr/testify/assert"
)

func TestTypeWrapping(t *testing.T) {
	str := &hostlang.Named{Name: "String"}

	tests := []struct {
		name    string
		wrapper canonical.Wrapper
		want    string
	}{
		{"bare non-null", nil, "String"},
		{"nullable", canonical.Wrapper{canonical.WrapNullable}, "Maybe String"},
		{"non-null list of non-null", canonical.Wrapper{canonical.WrapList}, "List String"},
		{
			"nullable list of nullable",
			canonical.Wrapper{canonical.WrapNullable, canonical.WrapList, canonical.WrapNullable},
			"Maybe (List (Maybe String))",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrappers.Type(str, tt.wrapper)
			assert.Equal(t, tt.want, hostlang.RenderType(got))
		})
	}
}

func TestDecoderMirrorsType(t *testing.T) {
	w := canonical.Wrapper{canonical.WrapNullable, canonical.WrapList}
	d := wrappers.Decoder(&decode.String{}, w)

	nullable, ok := d.(*decode.Nullable)
	assert.True(t, ok)
	list, ok := nullable.Of.(*decode.List)
	assert.True(t, ok)
	_, ok = list.Of.(*decode.String)
	assert.True(t, ok)
}
