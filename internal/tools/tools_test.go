package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitai/internal/github"
	"vitai/internal/repos"
)

type fixture struct {
	gh       *github.Client
	allow    *repos.Set
	requests *atomic.Int64
}

func newFixture(t *testing.T, token string, handler http.HandlerFunc) *fixture {
	t.Helper()

	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	return &fixture{
		gh: github.NewClient(token,
			github.WithBaseURL(server.URL),
			github.WithRequestsPerMinute(6000),
		),
		allow: repos.NewSet([]repos.Repository{
			{Owner: "adoptium", Name: "aqa-tests"},
			{Owner: "adoptium", Name: "TKG"},
		}),
		requests: &requests,
	}
}

func noCalls(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected network call")
	}
}

// sharedPreconditions runs the checks common to all three GitHub tools.
func sharedPreconditions(t *testing.T, build func(f *fixture) Tool, args func(repository string) map[string]any) {
	t.Run("missing token yields configuration observation without network call", func(t *testing.T) {
		f := newFixture(t, "", noCalls(t))
		result := build(f).Execute(context.Background(), args("adoptium/aqa-tests"))

		assert.True(t, strings.HasPrefix(result.Observation, "Observation:"))
		assert.Contains(t, result.Observation, "GITHUB_TOKEN is not configured")
		assert.Equal(t, int64(0), f.requests.Load())
	})

	t.Run("malformed repository yields format observation without network call", func(t *testing.T) {
		for _, repository := range []string{"no-slash", "owner/", "/name", "a/b/c", ""} {
			f := newFixture(t, "tok", noCalls(t))
			result := build(f).Execute(context.Background(), args(repository))

			assert.Equal(t, `Observation: Invalid repository format. Please use "owner/repo".`, result.Observation)
			assert.Equal(t, int64(0), f.requests.Load())
		}
	})

	t.Run("repository outside the allow-list is rejected without network call", func(t *testing.T) {
		f := newFixture(t, "tok", noCalls(t))
		result := build(f).Execute(context.Background(), args("torvalds/linux"))

		assert.True(t, strings.HasPrefix(result.Observation, "Observation:"))
		assert.Contains(t, result.Observation, "not in the list of permitted repositories")
		assert.Equal(t, int64(0), f.requests.Load())
	})
}

func TestSearchCodeTool(t *testing.T) {
	buildTool := func(f *fixture) Tool { return NewSearchCodeTool(f.gh, f.allow) }
	buildArgs := func(repository string) map[string]any {
		return map[string]any{"repository": repository, "query": "system test"}
	}

	sharedPreconditions(t, buildTool, buildArgs)

	t.Run("truncates to the five top-ranked matches in order", func(t *testing.T) {
		f := newFixture(t, "tok", func(w http.ResponseWriter, r *http.Request) {
			var items []map[string]any
			for i := 0; i < 12; i++ {
				items = append(items, map[string]any{
					"path":  fmt.Sprintf("src/file%02d.java", i),
					"score": float64(120 - i),
					"text_matches": []map[string]any{
						{"fragment": fmt.Sprintf("match %d", i)},
					},
				})
			}
			json.NewEncoder(w).Encode(map[string]any{"items": items})
		})

		result := buildTool(f).Execute(context.Background(), buildArgs("adoptium/aqa-tests"))
		require.True(t, result.Success)
		assert.Contains(t, result.Observation, "Observation: Found 5 files.")

		payload := result.Observation[strings.Index(result.Observation, "\n")+1:]
		var decoded []searchResult
		require.NoError(t, json.Unmarshal([]byte(payload), &decoded))
		require.Len(t, decoded, 5)
		for i, r := range decoded {
			assert.Equal(t, fmt.Sprintf("src/file%02d.java", i), r.Path)
			assert.Equal(t, fmt.Sprintf("match %d", i), r.Snippets)
		}
	})

	t.Run("joins multiple fragments and placeholders missing ones", func(t *testing.T) {
		f := newFixture(t, "tok", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"items": [
				{"path": "a.sh", "score": 2, "text_matches": [{"fragment": "one"}, {"fragment": "two"}]},
				{"path": "b.sh", "score": 1}
			]}`)
		})

		result := buildTool(f).Execute(context.Background(), buildArgs("adoptium/aqa-tests"))
		require.True(t, result.Success)

		payload := result.Observation[strings.Index(result.Observation, "\n")+1:]
		var decoded []searchResult
		require.NoError(t, json.Unmarshal([]byte(payload), &decoded))
		require.Len(t, decoded, 2)
		assert.Equal(t, "one\n...\ntwo", decoded[0].Snippets)
		assert.Equal(t, "No snippets available.", decoded[1].Snippets)
	})

	t.Run("empty result set suggests a broader query", func(t *testing.T) {
		f := newFixture(t, "tok", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"items": []}`)
		})

		result := buildTool(f).Execute(context.Background(), buildArgs("adoptium/aqa-tests"))
		assert.Contains(t, result.Observation, "No results found")
		assert.Contains(t, result.Observation, "Try a broader query")
	})

	t.Run("HTTP failure becomes an error observation with status and body", func(t *testing.T) {
		f := newFixture(t, "tok", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			fmt.Fprint(w, `{"message": "Validation Failed"}`)
		})

		result := buildTool(f).Execute(context.Background(), buildArgs("adoptium/aqa-tests"))
		assert.False(t, result.Success)
		assert.True(t, strings.HasPrefix(result.Observation, "Observation: Error searching GitHub"))
		assert.Contains(t, result.Observation, "422")
		assert.Contains(t, result.Observation, "Validation Failed")
	})

	t.Run("validate rejects missing arguments", func(t *testing.T) {
		f := newFixture(t, "tok", noCalls(t))
		tool := buildTool(f)

		assert.Error(t, tool.Validate(map[string]any{"query": "x"}))
		assert.Error(t, tool.Validate(map[string]any{"repository": "a/b"}))
		assert.NoError(t, tool.Validate(buildArgs("adoptium/aqa-tests")))
	})
}

func TestReadFileTool(t *testing.T) {
	buildTool := func(f *fixture) Tool { return NewReadFileTool(f.gh, f.allow) }
	buildArgs := func(repository string) map[string]any {
		return map[string]any{"repository": repository, "path": "scripts/run.sh"}
	}

	sharedPreconditions(t, buildTool, buildArgs)

	t.Run("wraps content in a fenced block with a preamble", func(t *testing.T) {
		f := newFixture(t, "tok", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "#!/bin/sh\necho hi\n")
		})

		result := buildTool(f).Execute(context.Background(), buildArgs("adoptium/TKG"))
		require.True(t, result.Success)
		assert.Contains(t, result.Observation, `Observation: Content of file "scripts/run.sh" from repository adoptium/TKG:`)
		assert.Contains(t, result.Observation, "```\n#!/bin/sh\necho hi\n\n```")
	})

	t.Run("silently truncates to the first 4000 characters", func(t *testing.T) {
		content := strings.Repeat("x", 10000)
		f := newFixture(t, "tok", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, content)
		})

		result := buildTool(f).Execute(context.Background(), buildArgs("adoptium/TKG"))
		require.True(t, result.Success)

		start := strings.Index(result.Observation, "```\n") + len("```\n")
		end := strings.LastIndex(result.Observation, "\n```")
		body := result.Observation[start:end]
		assert.Len(t, body, 4000)
		assert.NotContains(t, result.Observation, "truncated")
	})

	t.Run("truncation never splits a multi-byte rune", func(t *testing.T) {
		// A three-byte rune straddles the 4000-byte cap.
		content := strings.Repeat("x", 3999) + "日本語"
		f := newFixture(t, "tok", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, content)
		})

		result := buildTool(f).Execute(context.Background(), buildArgs("adoptium/TKG"))
		require.True(t, result.Success)
		assert.True(t, utf8.ValidString(result.Observation))

		start := strings.Index(result.Observation, "```\n") + len("```\n")
		end := strings.LastIndex(result.Observation, "\n```")
		assert.Equal(t, strings.Repeat("x", 3999), result.Observation[start:end])
	})

	t.Run("HTTP failure becomes an error observation", func(t *testing.T) {
		f := newFixture(t, "tok", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message": "Not Found"}`)
		})

		result := buildTool(f).Execute(context.Background(), buildArgs("adoptium/TKG"))
		assert.False(t, result.Success)
		assert.True(t, strings.HasPrefix(result.Observation, "Observation: Error reading file"))
		assert.Contains(t, result.Observation, "404")
	})
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 10))
	assert.Equal(t, "abc", truncate("abcdef", 3))
	assert.Equal(t, "ab", truncate("ab日", 4))
	assert.Equal(t, "ab日", truncate("ab日", 5))
	assert.Equal(t, "", truncate("日", 2))
}

func TestListDirTool(t *testing.T) {
	buildTool := func(f *fixture) Tool { return NewListDirTool(f.gh, f.allow) }
	buildArgs := func(repository string) map[string]any {
		return map[string]any{"repository": repository, "path": "scripts"}
	}

	sharedPreconditions(t, buildTool, buildArgs)

	t.Run("renders entries with directory and file markers", func(t *testing.T) {
		f := newFixture(t, "tok", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `[
				{"name": "testenv", "type": "dir"},
				{"name": "run.sh", "type": "file"},
				{"name": "README.md", "type": "file"}
			]`)
		})

		result := buildTool(f).Execute(context.Background(), buildArgs("adoptium/aqa-tests"))
		require.True(t, result.Success)
		assert.Contains(t, result.Observation, `Observation: Contents of "scripts" in repository adoptium/aqa-tests:`)
		assert.Contains(t, result.Observation, "[d] testenv\n[f] run.sh\n[f] README.md")
	})

	t.Run("file path yields read_file guidance, not an error", func(t *testing.T) {
		f := newFixture(t, "tok", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"name": "run.sh", "type": "file"}`)
		})

		args := map[string]any{"repository": "adoptium/aqa-tests", "path": "scripts/run.sh"}
		result := buildTool(f).Execute(context.Background(), args)
		assert.True(t, result.Success)
		assert.Equal(t,
			`Observation: The path "scripts/run.sh" in repository adoptium/aqa-tests is a file, not a directory. Use read_file to see its content.`,
			result.Observation)
	})

	t.Run("HTTP failure becomes an error observation", func(t *testing.T) {
		f := newFixture(t, "tok", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, "boom")
		})

		result := buildTool(f).Execute(context.Background(), buildArgs("adoptium/aqa-tests"))
		assert.False(t, result.Success)
		assert.True(t, strings.HasPrefix(result.Observation, "Observation: Error listing directory"))
	})
}

func TestFinishTool(t *testing.T) {
	tool := NewFinishTool()

	assert.Equal(t, FinishToolName, tool.Name())
	assert.Error(t, tool.Validate(map[string]any{}))
	assert.NoError(t, tool.Validate(map[string]any{"answer": "done"}))

	decl := tool.Declaration()
	require.NotNil(t, decl)
	assert.Equal(t, []string{"answer"}, decl.Parameters.Required)
}

func TestDefaultRegistry(t *testing.T) {
	f := newFixture(t, "tok", noCalls(t))
	registry := DefaultRegistry(f.gh, f.allow)

	assert.Equal(t, []string{"search_code", "read_file", "list_directory_contents", "finish_answer"}, registry.Names())

	declarations := registry.Declarations()
	require.Len(t, declarations, 4)
	for _, d := range declarations {
		assert.NotEmpty(t, d.Name)
		assert.NotEmpty(t, d.Description)
		require.NotNil(t, d.Parameters)
	}

	geminiTools := registry.GeminiTools()
	require.Len(t, geminiTools, 1)
	assert.Len(t, geminiTools[0].FunctionDeclarations, 4)
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(NewFinishTool()))
	assert.Error(t, r.Register(NewFinishTool()))
}

func TestParseRepository(t *testing.T) {
	cases := []struct {
		in          string
		owner, name string
		ok          bool
	}{
		{"adoptium/aqa-tests", "adoptium", "aqa-tests", true},
		{"a/b", "a", "b", true},
		{"no-slash", "", "", false},
		{"owner/", "", "", false},
		{"/name", "", "", false},
		{"a/b/c", "", "", false},
		{"", "", "", false},
	}
	for _, tc := range cases {
		owner, name, ok := parseRepository(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.owner, owner, tc.in)
		assert.Equal(t, tc.name, name, tc.in)
	}
}
