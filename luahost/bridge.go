package luahost

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/modelpath-ai/sdk/plugin"
)

// recordToLua converts a record into a Lua table.
func recordToLua(L *lua.LState, rec plugin.Record) *lua.LTable {
	t := L.NewTable()
	for k, v := range rec {
		t.RawSetString(k, goToLua(L, v))
	}
	return t
}

// luaToRecord converts a Lua table back into a record.
func luaToRecord(t *lua.LTable) plugin.Record {
	rec := plugin.Record{}
	t.ForEach(func(k, v lua.LValue) {
		rec[lua.LVAsString(k)] = luaToGo(v, make(map[*lua.LTable]bool))
	})
	return rec
}

// goToLua converts a Go value to a Lua value. Unsupported types become nil.
func goToLua(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int32:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case float32:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case []byte:
		return lua.LString(val)
	case []any:
		t := L.NewTable()
		for i, item := range val {
			t.RawSetInt(i+1, goToLua(L, item))
		}
		return t
	case []string:
		t := L.NewTable()
		for i, item := range val {
			t.RawSetInt(i+1, lua.LString(item))
		}
		return t
	case map[string]any:
		t := L.NewTable()
		for k, item := range val {
			t.RawSetString(k, goToLua(L, item))
		}
		return t
	case plugin.Record:
		return recordToLua(L, val)
	case lua.LValue:
		return val
	default:
		return lua.LNil
	}
}

// luaToGo converts a Lua value to a Go value, breaking table cycles.
func luaToGo(lv lua.LValue, visited map[*lua.LTable]bool) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		f := float64(v)
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	case lua.LString:
		return string(v)
	case *lua.LTable:
		if visited[v] {
			return nil
		}
		visited[v] = true
		return tableToGo(v, visited)
	default:
		return nil
	}
}

// tableToGo converts a Lua table to a slice when it is a contiguous array,
// or to a string-keyed map otherwise.
func tableToGo(t *lua.LTable, visited map[*lua.LTable]bool) any {
	length := t.Len()
	if length > 0 {
		contiguous := true
		count := 0
		t.ForEach(func(k, _ lua.LValue) {
			count++
			n, ok := k.(lua.LNumber)
			if !ok || float64(n) != float64(int(n)) || int(n) < 1 || int(n) > length {
				contiguous = false
			}
		})
		if contiguous && count == length {
			arr := make([]any, length)
			for i := 1; i <= length; i++ {
				arr[i-1] = luaToGo(t.RawGetInt(i), visited)
			}
			return arr
		}
	}

	m := make(map[string]any)
	t.ForEach(func(k, v lua.LValue) {
		var key string
		switch kv := k.(type) {
		case lua.LString:
			key = string(kv)
		case lua.LNumber:
			key = fmt.Sprintf("%v", float64(kv))
		default:
			key = k.String()
		}
		m[key] = luaToGo(v, visited)
	})
	return m
}
