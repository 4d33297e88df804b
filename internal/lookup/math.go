package lookup

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	numberRe   = regexp.MustCompile(`\d+(?:\.\d+)?`)
	compactMul = regexp.MustCompile(`(\d)\s*x\s*(\d)`)
)

type operator int

const (
	opNone operator = iota
	opAdd
	opSub
	opMul
	opDiv
)

var operatorWords = map[string]operator{
	"plus": opAdd, "add": opAdd, "sum": opAdd, "+": opAdd,
	"minus": opSub, "subtract": opSub, "-": opSub,
	"times": opMul, "multiply": opMul, "multiplied": opMul, "x": opMul, "*": opMul,
	"divide": opDiv, "divided": opDiv, "over": opDiv, "/": opDiv,
}

// Math solves two-number arithmetic problems phrased in words or symbols.
var Math = Func(func(_ context.Context, problem string) (string, error) {
	return Calculate(problem), nil
})

// Calculate answers problems like "what is 12 times 4" or "solve 9/3".
// It uses the first two numbers and the first operator word it finds.
func Calculate(problem string) string {
	nums := numberRe.FindAllString(problem, -1)
	if len(nums) < 2 {
		return "I need at least two numbers to perform a calculation."
	}
	a, _ := strconv.ParseFloat(nums[0], 64)
	b, _ := strconv.ParseFloat(nums[1], 64)

	as, bs := formatNumber(a), formatNumber(b)
	switch findOperator(problem) {
	case opAdd:
		return fmt.Sprintf("%s plus %s equals %s", as, bs, formatNumber(a+b))
	case opSub:
		return fmt.Sprintf("%s minus %s equals %s", as, bs, formatNumber(a-b))
	case opMul:
		return fmt.Sprintf("%s times %s equals %s", as, bs, formatNumber(a*b))
	case opDiv:
		if b == 0 {
			return "Cannot divide by zero"
		}
		return fmt.Sprintf("%s divided by %s equals %.2f", as, bs, a/b)
	default:
		return fmt.Sprintf("I found numbers %s and %s. What operation should I perform?", as, bs)
	}
}

func findOperator(problem string) operator {
	spaced := problem
	for _, sym := range []string{"+", "-", "*", "/"} {
		spaced = strings.ReplaceAll(spaced, sym, " "+sym+" ")
	}
	// "12x4" reads as multiplication.
	spaced = compactMul.ReplaceAllString(spaced, "$1 x $2")

	for _, tok := range strings.Fields(strings.ToLower(spaced)) {
		if op, ok := operatorWords[strings.Trim(tok, "?.,!")]; ok {
			return op
		}
	}
	return opNone
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
