package dynamodb

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeClient is an in-memory stand-in for the DynamoDB API, understanding
// the request shapes this package produces: exact-key gets, key-condition
// queries (equality, begins_with, BETWEEN), scans with a single equality
// filter, and batch put/delete with injectable unprocessed items.
type fakeClient struct {
	mu     sync.Mutex
	tables map[string]*fakeTable

	// failNext makes the next call of the given operation fail.
	failNext map[string]error
	// unprocessedNext makes the next BatchWriteItem leave that many
	// requests unprocessed.
	unprocessedNext int
}

type fakeTable struct {
	keyAttrs []string
	items    map[string]map[string]types.AttributeValue
	order    []string
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		tables:   make(map[string]*fakeTable),
		failNext: make(map[string]error),
	}
}

func (f *fakeClient) addTable(name string, keyAttrs ...string) {
	f.tables[name] = &fakeTable{
		keyAttrs: keyAttrs,
		items:    make(map[string]map[string]types.AttributeValue),
	}
}

func (t *fakeTable) keyOf(item map[string]types.AttributeValue) string {
	parts := make([]string, 0, len(t.keyAttrs))
	for _, attr := range t.keyAttrs {
		parts = append(parts, strValue(item[attr]))
	}
	return strings.Join(parts, "|")
}

func (t *fakeTable) put(item map[string]types.AttributeValue) {
	k := t.keyOf(item)
	if _, exists := t.items[k]; !exists {
		t.order = append(t.order, k)
	}
	t.items[k] = item
}

func (t *fakeTable) delete(key map[string]types.AttributeValue) {
	k := t.keyOf(key)
	if _, exists := t.items[k]; exists {
		delete(t.items, k)
		for i, o := range t.order {
			if o == k {
				t.order = append(t.order[:i], t.order[i+1:]...)
				break
			}
		}
	}
}

func (t *fakeTable) all() []map[string]types.AttributeValue {
	out := make([]map[string]types.AttributeValue, 0, len(t.order))
	for _, k := range t.order {
		out = append(out, t.items[k])
	}
	return out
}

func strValue(av types.AttributeValue) string {
	if s, ok := av.(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func (f *fakeClient) takeFailure(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failNext[op]; ok {
		delete(f.failNext, op)
		return err
	}
	return nil
}

func (f *fakeClient) table(name *string) (*fakeTable, error) {
	t, ok := f.tables[aws.ToString(name)]
	if !ok {
		return nil, fmt.Errorf("unknown table %q", aws.ToString(name))
	}
	return t, nil
}

func consumed(scanned int) *types.ConsumedCapacity {
	units := 0.5 * float64(scanned)
	if units < 0.5 {
		units = 0.5
	}
	return &types.ConsumedCapacity{CapacityUnits: aws.Float64(units)}
}

func (f *fakeClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if err := f.takeFailure("GetItem"); err != nil {
		return nil, err
	}
	t, err := f.table(params.TableName)
	if err != nil {
		return nil, err
	}
	item := t.items[t.keyOf(params.Key)]
	return &dynamodb.GetItemOutput{Item: item, ConsumedCapacity: consumed(1)}, nil
}

// condition is one parsed key-condition or filter clause.
type condition struct {
	attr string
	op   string // "eq", "begins", "between"
	val  string
	hi   string // upper bound for "between"
}

func (c condition) matches(item map[string]types.AttributeValue) bool {
	v := strValue(item[c.attr])
	switch c.op {
	case "eq":
		return v == c.val
	case "begins":
		return strings.HasPrefix(v, c.val)
	case "between":
		return v >= c.val && v <= c.hi
	}
	return false
}

var (
	reEqBetween = regexp.MustCompile(`^(#?\w+) = (:\w+) AND (#?\w+) BETWEEN (:\w+) AND (:\w+)$`)
	reEqBegins  = regexp.MustCompile(`^(#?\w+) = (:\w+) AND begins_with\((#?\w+), (:\w+)\)$`)
	reEqEq      = regexp.MustCompile(`^(#?\w+) = (:\w+) AND (#?\w+) = (:\w+)$`)
	reEq        = regexp.MustCompile(`^\(?(#?\w+) = (:\w+)\)?$`)
)

func parseConditions(expr string, names map[string]string, values map[string]types.AttributeValue) ([]condition, error) {
	resolve := func(attr string) string {
		if strings.HasPrefix(attr, "#") {
			return names[attr]
		}
		return attr
	}
	val := func(ref string) string { return strValue(values[ref]) }

	if m := reEqBetween.FindStringSubmatch(expr); m != nil {
		return []condition{
			{attr: resolve(m[1]), op: "eq", val: val(m[2])},
			{attr: resolve(m[3]), op: "between", val: val(m[4]), hi: val(m[5])},
		}, nil
	}
	if m := reEqBegins.FindStringSubmatch(expr); m != nil {
		return []condition{
			{attr: resolve(m[1]), op: "eq", val: val(m[2])},
			{attr: resolve(m[3]), op: "begins", val: val(m[4])},
		}, nil
	}
	if m := reEqEq.FindStringSubmatch(expr); m != nil {
		return []condition{
			{attr: resolve(m[1]), op: "eq", val: val(m[2])},
			{attr: resolve(m[3]), op: "eq", val: val(m[4])},
		}, nil
	}
	if m := reEq.FindStringSubmatch(expr); m != nil {
		return []condition{{attr: resolve(m[1]), op: "eq", val: val(m[2])}}, nil
	}
	return nil, fmt.Errorf("unsupported expression %q", expr)
}

func (f *fakeClient) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	if err := f.takeFailure("Query"); err != nil {
		return nil, err
	}
	t, err := f.table(params.TableName)
	if err != nil {
		return nil, err
	}

	conds, err := parseConditions(aws.ToString(params.KeyConditionExpression), params.ExpressionAttributeNames, params.ExpressionAttributeValues)
	if err != nil {
		return nil, err
	}

	var items []map[string]types.AttributeValue
	for _, item := range t.all() {
		ok := true
		for _, c := range conds {
			if !c.matches(item) {
				ok = false
				break
			}
		}
		if ok {
			items = append(items, item)
		}
	}

	if params.Limit != nil && len(items) > int(*params.Limit) {
		items = items[:*params.Limit]
	}

	return &dynamodb.QueryOutput{
		Items:            items,
		Count:            int32(len(items)),
		ScannedCount:     int32(len(items)),
		ConsumedCapacity: consumed(len(items)),
	}, nil
}

func (f *fakeClient) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	if err := f.takeFailure("Scan"); err != nil {
		return nil, err
	}
	t, err := f.table(params.TableName)
	if err != nil {
		return nil, err
	}

	all := t.all()

	var conds []condition
	if params.FilterExpression != nil {
		conds, err = parseConditions(aws.ToString(params.FilterExpression), params.ExpressionAttributeNames, params.ExpressionAttributeValues)
		if err != nil {
			return nil, err
		}
	}

	var items []map[string]types.AttributeValue
	for _, item := range all {
		ok := true
		for _, c := range conds {
			if !c.matches(item) {
				ok = false
				break
			}
		}
		if ok {
			items = append(items, item)
		}
	}

	return &dynamodb.ScanOutput{
		Items:            items,
		Count:            int32(len(items)),
		ScannedCount:     int32(len(all)),
		ConsumedCapacity: consumed(len(all)),
	}, nil
}

func (f *fakeClient) BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	if err := f.takeFailure("BatchWriteItem"); err != nil {
		return nil, err
	}

	out := &dynamodb.BatchWriteItemOutput{UnprocessedItems: map[string][]types.WriteRequest{}}
	for table, reqs := range params.RequestItems {
		t, err := f.table(aws.String(table))
		if err != nil {
			return nil, err
		}
		for i, req := range reqs {
			if f.unprocessedNext > 0 && i >= len(reqs)-f.unprocessedNext {
				out.UnprocessedItems[table] = append(out.UnprocessedItems[table], req)
				continue
			}
			switch {
			case req.PutRequest != nil:
				t.put(req.PutRequest.Item)
			case req.DeleteRequest != nil:
				t.delete(req.DeleteRequest.Key)
			}
		}
		if f.unprocessedNext > 0 {
			f.unprocessedNext = 0
		}
	}
	return out, nil
}
