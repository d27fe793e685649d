package cli

import (
	"testing"

	"github.com/fekuna/stockmanager/internal/model"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetField(t *testing.T) {
	var it model.Item
	require.NoError(t, setField(&it, "name", "  Arroz "))
	require.NoError(t, setField(&it, "quantity", "3"))
	require.NoError(t, setField(&it, "price", "4.5"))
	require.NoError(t, setField(&it, "brand", "Tio João"))

	assert.Equal(t, "Arroz", it.Name)
	assert.EqualValues(t, 3, *it.Quantity)
	assert.Equal(t, 4.5, *it.Price)
	assert.Equal(t, "Tio João", *it.Brand)

	require.NoError(t, setField(&it, "brand", "  "))
	assert.Nil(t, it.Brand)
	require.NoError(t, setField(&it, "price", ""))
	assert.Nil(t, it.Price)

	assert.Error(t, setField(&it, "quantity", "many"))
	assert.Error(t, setField(&it, "price", "cheap"))
	assert.Error(t, setField(&it, "weight", "1"))
}

func TestApplyItemFlags_OnlyChanged(t *testing.T) {
	fs := pflag.NewFlagSet("t", pflag.ContinueOnError)
	bindItemFlags(fs)
	require.NoError(t, fs.Parse([]string{"--quantity", "7"}))

	it := model.Item{Name: "Sal", Brand: model.Ptr("Cisne")}
	require.NoError(t, applyItemFlags(fs, &it))

	assert.Equal(t, "Sal", it.Name)
	assert.Equal(t, "Cisne", *it.Brand)
	assert.EqualValues(t, 7, *it.Quantity)
}
