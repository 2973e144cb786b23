package dynamo

import (
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-kanban-api/internal/domain"
)

// strKey builds a DynamoDB primary key map with a single string attribute.
func strKey(name, value string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		name: &types.AttributeValueMemberS{Value: value},
	}
}

// buildUpdateExpr converts a map of field->value into a DynamoDB SET
// expression. Keys are sorted so the expression is deterministic.
func buildUpdateExpr(updates map[string]interface{}) (expr string, names map[string]string, values map[string]types.AttributeValue, err error) {
	if len(updates) == 0 {
		return "", nil, nil, fmt.Errorf("no fields to update")
	}
	keys := make([]string, 0, len(updates))
	for k := range updates {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	names = make(map[string]string)
	values = make(map[string]types.AttributeValue)
	expr = "SET "
	for i, k := range keys {
		nameKey := fmt.Sprintf("#f%d", i)
		valueKey := fmt.Sprintf(":v%d", i)
		names[nameKey] = k
		av, mErr := attributevalue.Marshal(updates[k])
		if mErr != nil {
			return "", nil, nil, fmt.Errorf("marshal field %s: %w", k, mErr)
		}
		values[valueKey] = av
		if i > 0 {
			expr += ", "
		}
		expr += fmt.Sprintf("%s = %s", nameKey, valueKey)
	}
	return expr, names, values, nil
}

// canonicalID normalises one stored member entry to its canonical string
// form. Historical writes left a mix of S and N typed entries in board
// users lists; every comparison must go through this before trusting
// equality.
func canonicalID(av types.AttributeValue) string {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return v.Value
	case *types.AttributeValueMemberN:
		return v.Value
	case *types.AttributeValueMemberB:
		return string(v.Value)
	default:
		return ""
	}
}

// attrKind names the stored attribute type of a member entry for the
// audit surface.
func attrKind(av types.AttributeValue) string {
	switch av.(type) {
	case *types.AttributeValueMemberS:
		return "string"
	case *types.AttributeValueMemberN:
		return "number"
	case *types.AttributeValueMemberB:
		return "binary"
	default:
		return fmt.Sprintf("%T", av)
	}
}

// usersFromItem extracts a board item's users attribute as canonical
// strings. A missing or non-list attribute yields an empty slice, never an
// error: drifted documents must still load so they can be repaired.
func usersFromItem(item map[string]types.AttributeValue) []string {
	list, ok := item["users"].(*types.AttributeValueMemberL)
	if !ok {
		return []string{}
	}
	users := make([]string, 0, len(list.Value))
	for _, av := range list.Value {
		if s := canonicalID(av); s != "" {
			users = append(users, s)
		}
	}
	return users
}

// auditUsersFromItem reports each raw users entry with its stored type.
func auditUsersFromItem(item map[string]types.AttributeValue) []domain.AuditUserEntry {
	list, ok := item["users"].(*types.AttributeValueMemberL)
	if !ok {
		return []domain.AuditUserEntry{}
	}
	entries := make([]domain.AuditUserEntry, 0, len(list.Value))
	for _, av := range list.Value {
		entries = append(entries, domain.AuditUserEntry{
			Value: canonicalID(av),
			Kind:  attrKind(av),
		})
	}
	return entries
}
