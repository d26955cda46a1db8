/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

// fakeAPI is an in-memory table understanding the update expressions the
// dialect produces.
type fakeAPI struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue

	transactSizes []int
	describeErr   error
	transactErr   func(items []types.TransactWriteItem) error
	pageSize      int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{items: make(map[string]map[string]types.AttributeValue), pageSize: 2}
}

func keyOf(key map[string]types.AttributeValue) string {
	pk := key[pkAttr].(*types.AttributeValueMemberS).Value
	sk := key[skAttr].(*types.AttributeValueMemberS).Value
	return itemKey{pk: pk, sk: sk}.String()
}

func copyItem(item map[string]types.AttributeValue) map[string]types.AttributeValue {
	out := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}

func (f *fakeAPI) GetItem(ctx context.Context, in *sdk.GetItemInput, _ ...func(*sdk.Options)) (*sdk.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[keyOf(in.Key)]
	if !ok {
		return &sdk.GetItemOutput{}, nil
	}
	return &sdk.GetItemOutput{Item: copyItem(item)}, nil
}

func (f *fakeAPI) PutItem(ctx context.Context, in *sdk.PutItemInput, _ ...func(*sdk.Options)) (*sdk.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[keyOf(in.Item)] = copyItem(in.Item)
	return &sdk.PutItemOutput{}, nil
}

func (f *fakeAPI) DeleteItem(ctx context.Context, in *sdk.DeleteItemInput, _ ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, keyOf(in.Key))
	return &sdk.DeleteItemOutput{}, nil
}

var (
	sectionPattern = regexp.MustCompile(`(SET|REMOVE|ADD) `)
	setPattern     = regexp.MustCompile(`(#f\d+) = (?:if_not_exists\((#f\d+), (:v\d+)\)|(:v\d+))`)
	namePattern    = regexp.MustCompile(`#f\d+`)
	addPattern     = regexp.MustCompile(`(#f\d+) (:v\d+)`)
)

func (f *fakeAPI) UpdateItem(ctx context.Context, in *sdk.UpdateItemInput, _ ...func(*sdk.Options)) (*sdk.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	updated, err := f.update(in.Key, aws.ToString(in.UpdateExpression), in.ExpressionAttributeNames, in.ExpressionAttributeValues)
	if err != nil {
		return nil, err
	}
	return &sdk.UpdateItemOutput{Attributes: updated}, nil
}

// update applies an expression and returns the updated attributes.
func (f *fakeAPI) update(key map[string]types.AttributeValue, expr string, names map[string]string, values map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	k := keyOf(key)
	item, ok := f.items[k]
	if !ok {
		item = copyItem(key)
	}
	updated := make(map[string]types.AttributeValue)

	locs := sectionPattern.FindAllStringSubmatchIndex(expr, -1)
	for i, loc := range locs {
		end := len(expr)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		keyword, body := expr[loc[2]:loc[3]], expr[loc[1]:end]
		switch keyword {
		case "SET":
			for _, m := range setPattern.FindAllStringSubmatch(body, -1) {
				attr := names[m[1]]
				if m[3] != "" {
					if _, exists := item[attr]; exists {
						continue
					}
					item[attr] = values[m[3]]
				} else {
					item[attr] = values[m[4]]
				}
				updated[attr] = item[attr]
			}
		case "REMOVE":
			for _, p := range namePattern.FindAllString(body, -1) {
				delete(item, names[p])
			}
		case "ADD":
			for _, m := range addPattern.FindAllStringSubmatch(body, -1) {
				attr := names[m[1]]
				delta, _ := strconv.ParseInt(values[m[2]].(*types.AttributeValueMemberN).Value, 10, 64)
				var current int64
				if n, ok := item[attr].(*types.AttributeValueMemberN); ok {
					current, _ = strconv.ParseInt(n.Value, 10, 64)
				}
				item[attr] = &types.AttributeValueMemberN{Value: strconv.FormatInt(current+delta, 10)}
				updated[attr] = item[attr]
			}
		default:
			return nil, fmt.Errorf("unsupported clause %q", keyword)
		}
	}
	f.items[k] = item
	return updated, nil
}

func (f *fakeAPI) TransactWriteItems(ctx context.Context, in *sdk.TransactWriteItemsInput, _ ...func(*sdk.Options)) (*sdk.TransactWriteItemsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(in.TransactItems) > maxTransactItems {
		return nil, &smithy.GenericAPIError{Code: "ValidationException", Message: "too many items"}
	}
	seen := make(map[string]struct{})
	for _, item := range in.TransactItems {
		var k string
		switch {
		case item.Update != nil:
			k = keyOf(item.Update.Key)
		case item.Put != nil:
			k = keyOf(item.Put.Item)
		case item.Delete != nil:
			k = keyOf(item.Delete.Key)
		}
		if _, dup := seen[k]; dup {
			return nil, &smithy.GenericAPIError{Code: "ValidationException", Message: "multiple operations on one item"}
		}
		seen[k] = struct{}{}
	}
	if f.transactErr != nil {
		if err := f.transactErr(in.TransactItems); err != nil {
			return nil, err
		}
	}
	f.transactSizes = append(f.transactSizes, len(in.TransactItems))

	for _, item := range in.TransactItems {
		switch {
		case item.Update != nil:
			u := item.Update
			if _, err := f.update(u.Key, aws.ToString(u.UpdateExpression), u.ExpressionAttributeNames, u.ExpressionAttributeValues); err != nil {
				return nil, err
			}
		case item.Put != nil:
			f.items[keyOf(item.Put.Item)] = copyItem(item.Put.Item)
		case item.Delete != nil:
			delete(f.items, keyOf(item.Delete.Key))
		}
	}
	return &sdk.TransactWriteItemsOutput{}, nil
}

func (f *fakeAPI) BatchWriteItem(ctx context.Context, in *sdk.BatchWriteItemInput, _ ...func(*sdk.Options)) (*sdk.BatchWriteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, requests := range in.RequestItems {
		for _, r := range requests {
			if r.DeleteRequest != nil {
				delete(f.items, keyOf(r.DeleteRequest.Key))
			}
		}
	}
	return &sdk.BatchWriteItemOutput{}, nil
}

func (f *fakeAPI) Scan(ctx context.Context, in *sdk.ScanInput, _ ...func(*sdk.Options)) (*sdk.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make([]string, 0, len(f.items))
	for k := range f.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	start := 0
	if in.ExclusiveStartKey != nil {
		after := keyOf(in.ExclusiveStartKey)
		start = sort.SearchStrings(keys, after) + 1
	}
	end := start + f.pageSize
	if end > len(keys) {
		end = len(keys)
	}
	out := &sdk.ScanOutput{}
	for _, k := range keys[start:end] {
		out.Items = append(out.Items, copyItem(f.items[k]))
	}
	if end < len(keys) {
		last := f.items[keys[end-1]]
		out.LastEvaluatedKey = map[string]types.AttributeValue{pkAttr: last[pkAttr], skAttr: last[skAttr]}
	}
	return out, nil
}

func (f *fakeAPI) DescribeTable(ctx context.Context, in *sdk.DescribeTableInput, _ ...func(*sdk.Options)) (*sdk.DescribeTableOutput, error) {
	if f.describeErr != nil {
		return nil, f.describeErr
	}
	return &sdk.DescribeTableOutput{Table: &types.TableDescription{TableName: in.TableName}}, nil
}

var _ API = (*fakeAPI)(nil)
