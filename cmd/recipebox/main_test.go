package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/recipebox/internal/config"
)

// cliEnv points the config dir at a temp dir and returns store flags for a
// file store inside it.
func cliEnv(t *testing.T) []string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	return []string{"--quiet", "--driver", "file", "--path", filepath.Join(dir, "store")}
}

func runCLI(t *testing.T, flags []string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := run(context.Background(), append(append([]string{}, flags...), args...), &out, &errOut)
	return out.String(), err
}

func TestListEmpty(t *testing.T) {
	flags := cliEnv(t)
	out, err := runCLI(t, flags, "list")
	require.NoError(t, err)
	assert.Contains(t, out, emptyText)
}

func TestSeedListShow(t *testing.T) {
	flags := cliEnv(t)

	out, err := runCLI(t, flags, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "Added Chicken Alfredo")

	out, err = runCLI(t, flags, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "Skipped")

	out, err = runCLI(t, flags, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "sample-vegetable-stir-fry")
	assert.Contains(t, out, "sample-chicken-alfredo")

	out, err = runCLI(t, flags, "list", "--query", "alfredo")
	require.NoError(t, err)
	assert.NotContains(t, out, "sample-vegetable-stir-fry")

	out, err = runCLI(t, flags, "show", "sample-chicken-alfredo", "--servings", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Servings: 3")
	assert.Contains(t, out, "(375 g)")
}

func TestShowMissing(t *testing.T) {
	flags := cliEnv(t)
	_, err := runCLI(t, flags, "show", "nope")
	require.Error(t, err)
	assert.Equal(t, "Recipe Not Found", err.Error())
}

func TestAddAndDelete(t *testing.T) {
	flags := cliEnv(t)

	out, err := runCLI(t, flags, "add",
		"--name", "Pancakes",
		"--servings", "4",
		"--ingredient", "Flour|200|g",
		"--ingredient", "Milk|300|ml",
		"--step", "Whisk everything|1,2",
		"--step", "Fry",
		"--tag", "breakfast",
	)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "Added Pancakes ("), out)
	id := strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(out), "Added Pancakes ("), ")")

	out, err = runCLI(t, flags, "show", id, "--servings", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Flour (100 g)")
	assert.Contains(t, out, "uses: Flour (100 g), Milk (150 ml)")

	_, err = runCLI(t, flags, "delete", id)
	require.NoError(t, err)
	_, err = runCLI(t, flags, "show", id)
	assert.Error(t, err)
}

func TestAddRejectsBadLinks(t *testing.T) {
	flags := cliEnv(t)
	_, err := runCLI(t, flags, "add", "--name", "X", "--ingredient", "Egg|1|", "--step", "Crack|2")
	assert.Error(t, err)
}

func TestImport(t *testing.T) {
	flags := cliEnv(t)
	file := filepath.Join(t.TempDir(), "recipes.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
- name: Toast
  baseServings: "1"
  ingredients:
    - id: bread
      name: Bread
      amount: "2"
      unit: slices
    - name: Butter
  steps:
    - instruction: Toast the bread
      linkedIngredientIds: [bread]
    - instruction: Butter it
- name: Tea
- name: Broken
  ingredients:
    - id: egg
      name: Egg
    - id: egg
      name: Another egg
`), 0o644))

	out, err := runCLI(t, flags, "import", file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `import "Broken"`)
	assert.Contains(t, out, "Imported Toast")
	assert.Contains(t, out, "Imported Tea")

	out, err = runCLI(t, flags, "list", "--query", "toast")
	require.NoError(t, err)
	assert.Contains(t, out, "Toast")
}

func TestDecodeRecipesAcceptsJSONObject(t *testing.T) {
	list, err := decodeRecipes([]byte(`{"id":"j","name":"From JSON","baseServings":"2"}`))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "From JSON", list[0].Name)
}

func TestDriverDefaultsToItsOwnPath(t *testing.T) {
	cliEnv(t)
	flags := []string{"--quiet", "--driver", "FILE"}

	_, err := runCLI(t, flags, "seed")
	require.NoError(t, err)
	out, err := runCLI(t, flags, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "sample-chicken-alfredo")

	info, err := os.Stat(config.DefaultStoragePath("file"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestUnknownDriver(t *testing.T) {
	cliEnv(t)
	_, err := runCLI(t, []string{"--quiet", "--driver", "etcd"}, "list")
	assert.Error(t, err)
}
