package service

import (
	"net/url"
	"onlinecourse_backend/internal/util"
	"strconv"
	"strings"
)

const (
	// 表单中所选选项字段的前缀，页面统一使用 "choice"
	choiceFieldPrefix = "choice"
	// 单次提交允许的最大选项数
	maxSelectedChoices = 500
)

// ExtractAnswers 收集所有以 choice 开头的表单字段值作为选项ID，去重后返回
func ExtractAnswers(form url.Values) ([]uint, error) {
	seen := make(map[uint]struct{})
	ids := make([]uint, 0)

	for key, values := range form {
		if !strings.HasPrefix(key, choiceFieldPrefix) {
			continue
		}
		for _, v := range values {
			id, err := strconv.ParseUint(strings.TrimSpace(v), 10, 32)
			if err != nil {
				return nil, util.ErrInvalidChoiceID
			}
			if _, ok := seen[uint(id)]; ok {
				continue
			}
			if len(ids) >= maxSelectedChoices {
				return nil, util.ErrTooManyChoices
			}
			seen[uint(id)] = struct{}{}
			ids = append(ids, uint(id))
		}
	}
	return ids, nil
}

// NormalizeChoiceIDs 对 JSON 请求中的选项ID去重并校验数量
func NormalizeChoiceIDs(raw []uint) ([]uint, error) {
	seen := make(map[uint]struct{}, len(raw))
	ids := make([]uint, 0, len(raw))
	for _, id := range raw {
		if _, ok := seen[id]; ok {
			continue
		}
		if len(ids) >= maxSelectedChoices {
			return nil, util.ErrTooManyChoices
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}
