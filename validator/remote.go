// validator/remote.go
package validator

import (
	"context"
	"net/rpc"
)

// Remote delegates validation to an external checker over net/rpc. The
// remote side registers a "Validator" service with a Check method taking
// CheckArgs and filling CheckReply.
type Remote struct {
	address string
}

type CheckArgs struct {
	Code      string
	Language  string
	Methods   []string
	CaseNames []string
}

type CheckReply struct {
	Report Report
}

func NewRemote(address string) *Remote {
	return &Remote{address: address}
}

func (v *Remote) Validate(ctx context.Context, req Request) (*Report, error) {
	client, err := rpc.Dial("tcp", v.address)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	cases := req.TestCases
	if len(cases) == 0 {
		cases = FallbackTestCases
	}

	args := &CheckArgs{Code: req.Code, Language: req.Language}
	for _, tc := range cases {
		args.Methods = append(args.Methods, tc.Method)
		args.CaseNames = append(args.CaseNames, tc.Name)
	}

	var reply CheckReply
	call := client.Go("Validator.Check", args, &reply, nil)
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case done := <-call.Done:
		if done.Error != nil {
			return nil, done.Error
		}
	}
	return &reply.Report, nil
}
