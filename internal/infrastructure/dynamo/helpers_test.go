package dynamo

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildUpdateExpr_SingleField(t *testing.T) {
	expr, names, values, err := buildUpdateExpr(map[string]interface{}{"name": "Roadmap"})
	require.NoError(t, err)
	assert.Equal(t, "SET #f0 = :v0", expr)
	assert.Equal(t, map[string]string{"#f0": "name"}, names)
	_, ok := values[":v0"]
	assert.True(t, ok)
}

func TestBuildUpdateExpr_MultipleFields_Deterministic(t *testing.T) {
	updates := map[string]interface{}{
		"name":             "Roadmap",
		"background_image": "bg.png",
		"sequence":         3,
	}
	expr1, names1, _, err := buildUpdateExpr(updates)
	require.NoError(t, err)
	expr2, _, _, err := buildUpdateExpr(updates)
	require.NoError(t, err)

	assert.Equal(t, expr1, expr2)

	// Keys are sorted: background_image < name < sequence
	assert.Equal(t, "background_image", names1["#f0"])
	assert.Equal(t, "name", names1["#f1"])
	assert.Equal(t, "sequence", names1["#f2"])
	assert.Equal(t, "SET #f0 = :v0, #f1 = :v1, #f2 = :v2", expr1)
}

func TestBuildUpdateExpr_EmptyMap_ReturnsError(t *testing.T) {
	_, _, _, err := buildUpdateExpr(map[string]interface{}{})
	assert.ErrorContains(t, err, "no fields to update")
}

func TestCanonicalID_MixedTypes(t *testing.T) {
	assert.Equal(t, "u1", canonicalID(&types.AttributeValueMemberS{Value: "u1"}))
	assert.Equal(t, "12345", canonicalID(&types.AttributeValueMemberN{Value: "12345"}))
	assert.Equal(t, "u2", canonicalID(&types.AttributeValueMemberB{Value: []byte("u2")}))
	assert.Equal(t, "", canonicalID(&types.AttributeValueMemberBOOL{Value: true}))
}

func TestAttrKind(t *testing.T) {
	assert.Equal(t, "string", attrKind(&types.AttributeValueMemberS{Value: "u1"}))
	assert.Equal(t, "number", attrKind(&types.AttributeValueMemberN{Value: "1"}))
	assert.Equal(t, "binary", attrKind(&types.AttributeValueMemberB{Value: []byte("x")}))
}

func TestUsersFromItem_MixedEntries(t *testing.T) {
	item := map[string]types.AttributeValue{
		"users": &types.AttributeValueMemberL{Value: []types.AttributeValue{
			&types.AttributeValueMemberS{Value: "u1"},
			&types.AttributeValueMemberN{Value: "12345"},
			&types.AttributeValueMemberBOOL{Value: true}, // unrepresentable, dropped
		}},
	}
	assert.Equal(t, []string{"u1", "12345"}, usersFromItem(item))
}

func TestUsersFromItem_MissingAttribute(t *testing.T) {
	users := usersFromItem(map[string]types.AttributeValue{})
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestUsersFromItem_WrongType(t *testing.T) {
	item := map[string]types.AttributeValue{
		"users": &types.AttributeValueMemberS{Value: "not-a-list"},
	}
	assert.Empty(t, usersFromItem(item))
}

func TestAuditUsersFromItem_ReportsStoredKinds(t *testing.T) {
	item := map[string]types.AttributeValue{
		"users": &types.AttributeValueMemberL{Value: []types.AttributeValue{
			&types.AttributeValueMemberS{Value: "u1"},
			&types.AttributeValueMemberN{Value: "12345"},
		}},
	}
	entries := auditUsersFromItem(item)
	require.Len(t, entries, 2)
	assert.Equal(t, "string", entries[0].Kind)
	assert.Equal(t, "number", entries[1].Kind)
	assert.Equal(t, "12345", entries[1].Value)
}
