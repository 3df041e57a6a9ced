// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package validation

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

type validationTestSuite struct {
	suite.Suite
}

// In order for 'go test' to run this suite, we need to create
// a normal test function and pass our suite to suite.Run
func TestValidation(t *testing.T) {
	suite.Run(t, new(validationTestSuite))
}

func (s *validationTestSuite) TestNewChain() {
	s.Run("new chain without option", func() {
		chain := New()
		s.Assert().NotNil(chain)
		s.Assert().False(chain.failFast)
	})
	s.Run("new chain with options", func() {
		chain := New(FailFast())
		s.Assert().True(chain.failFast)
		chain2 := New(AllErrors())
		s.Assert().False(chain2.failFast)
	})
}

func (s *validationTestSuite) TestAddValidator() {
	chain := New()
	s.Assert().Empty(chain.validators)
	chain.AddValidator(NewBooleanValidator(true, ""))
	s.Assert().Len(chain.validators, 1)
	chain.AddAssertion(true, "")
	s.Assert().Len(chain.validators, 2)
}

func (s *validationTestSuite) TestValidate() {
	s.Run("with single validator", func() {
		chain := New()
		chain.AddValidator(NewEmptyStringValidator("field", ""))
		s.Assert().Nil(chain.violations)
		err := chain.Validate()
		s.Assert().NotNil(chain.violations)
		s.Assert().EqualError(err, "the [field] is required")
	})
	s.Run("with multiple validators and FailFast option", func() {
		chain := New(FailFast())
		chain.
			AddValidator(NewEmptyStringValidator("field", " ")).
			AddAssertion(false, "this is false")
		err := chain.Validate()
		s.Assert().Nil(chain.violations)
		s.Assert().EqualError(err, "the [field] is required")
	})
	s.Run("with multiple validators and AllErrors option", func() {
		chain := New(AllErrors())
		chain.
			AddValidator(NewEmptyStringValidator("field", "")).
			AddAssertion(false, "this is false")
		err := chain.Validate()
		s.Assert().EqualError(err, "the [field] is required; this is false")
	})
	s.Run("with no violation", func() {
		chain := New().
			AddValidator(NewEmptyStringValidator("field", "value")).
			AddAssertion(true, "unused")
		s.Assert().NoError(chain.Validate())
	})
}

func (s *validationTestSuite) TestBooleanValidator() {
	s.Assert().NoError(NewBooleanValidator(true, "error message").Validate())
	s.Assert().EqualError(NewBooleanValidator(false, "error message").Validate(), "error message")
}

func (s *validationTestSuite) TestPatternValidator() {
	pattern := regexp.MustCompile(`^[a-z]+$`)
	s.Assert().NoError(NewPatternValidator(pattern, "netty", nil).Validate())
	s.Assert().EqualError(NewPatternValidator(pattern, "Netty", nil).Validate(), "invalid expression")
	s.Assert().EqualError(NewPatternValidator(pattern, "Netty", errNameInvalid).Validate(), errNameInvalid.Error())
}

func (s *validationTestSuite) TestNameValidator() {
	valid := []string{"netty", "mina", "x", "zstd", "grpc.v2", "my_codec", "a-1", "0rtt"}
	for _, name := range valid {
		s.Assert().NoError(NewNameValidator(name).Validate(), name)
	}

	s.Assert().ErrorIs(NewNameValidator("true").Validate(), errNameReserved)
	s.Assert().ErrorIs(NewNameValidator("default").Validate(), errNameReserved)
	s.Assert().ErrorIs(NewNameValidator(strings.Repeat("a", 300)).Validate(), errNameTooLong)

	invalid := []string{"", "-netty", "net ty", "a,b", ".hidden", "n@tty"}
	for _, name := range invalid {
		s.Assert().ErrorIs(NewNameValidator(name).Validate(), errNameInvalid, name)
	}
}

func (s *validationTestSuite) TestTCPAddressValidator() {
	s.Assert().NoError(NewTCPAddressValidator("127.0.0.1:3222").Validate())
	s.Assert().NoError(NewTCPAddressValidator("127.0.0.1:0").Validate())
	s.Assert().Error(NewTCPAddressValidator("127.0.0.1:-1").Validate())
	s.Assert().Error(NewTCPAddressValidator("127.0.0.1:655387").Validate())
	s.Assert().Error(NewTCPAddressValidator(":3222").Validate())
	s.Assert().Error(NewTCPAddressValidator("127.0.0.1").Validate())
}
