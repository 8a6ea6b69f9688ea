package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateJSONAgainstSchema(t *testing.T) {
	schema := BuildResumeJSONSchema()

	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{
			name: "full document",
			doc: `{"name":"王小明","gender":"男","dob":"1990-01-01","mobile":"0912345678",
				"workExperienceYears":"5年","specialIdentity":"無","lastCompanyName":"台積電",
				"lastJobTitle":"工程師","householdCity":"台北市"}`,
		},
		{
			name: "only name, everything else omitted",
			doc:  `{"name":"王小明"}`,
		},
		{
			name: "empty optional fields are legitimate",
			doc:  `{"name":"王小明","gender":"","mobile":""}`,
		},
		{
			name:    "missing name",
			doc:     `{"gender":"男"}`,
			wantErr: true,
		},
		{
			name:    "empty name",
			doc:     `{"name":""}`,
			wantErr: true,
		},
		{
			name:    "unknown field",
			doc:     `{"name":"王小明","salary":"100"}`,
			wantErr: true,
		},
		{
			name:    "not json",
			doc:     "```json\n{}\n```",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJSONAgainstSchema(schema, []byte(tt.doc))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestResponseSchemaCoversAllNineFields(t *testing.T) {
	s := ResponseSchema()
	require.NotNil(t, s)
	assert.Len(t, s.Properties, 9)
	assert.Equal(t, []string{"name"}, s.Required)
	for key := range BuildResumeJSONSchema()["properties"].(map[string]any) {
		assert.Contains(t, s.Properties, key, "request and validation schemas must agree")
	}
}
