package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asteroid-belt/studydeck/internal/models"
)

func TestParseSyllabusURI(t *testing.T) {
	tests := []struct {
		name    string
		uri     string
		want    models.Subject
		wantErr bool
	}{
		{name: "maths", uri: "studydeck://syllabus/maths", want: models.SubjectMaths},
		{name: "abbreviated", uri: "studydeck://syllabus/chem", want: models.SubjectChemistry},
		{name: "invalid scheme", uri: "http://syllabus/maths", wantErr: true},
		{name: "empty subject", uri: "studydeck://syllabus/", wantErr: true},
		{name: "unknown subject", uri: "studydeck://syllabus/biology", wantErr: true},
		{name: "wrong path prefix", uri: "studydeck://notes/maths", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSyllabusURI(tt.uri)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHandleSyllabusResource(t *testing.T) {
	s, _ := newTestServer(t)

	req := mcp.ReadResourceRequest{}
	req.Params.URI = "studydeck://syllabus/maths"
	contents, err := s.handleSyllabusResource(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, "application/json", text.MIMEType)

	var resp SyllabusResponse
	require.NoError(t, json.Unmarshal([]byte(text.Text), &resp))
	assert.Equal(t, "maths", resp.Subject)
	require.NotEmpty(t, resp.Syllabus.ClassXI)
	assert.Equal(t, "Sets, Relations and Functions", resp.Syllabus.ClassXI[0].Name)
	assert.NotEmpty(t, resp.Syllabus.ClassXII)

	req.Params.URI = "studydeck://syllabus/biology"
	_, err = s.handleSyllabusResource(context.Background(), req)
	assert.Error(t, err)
}
