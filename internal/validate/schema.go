package validate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"github.com/temirov/overseer/internal/checks"
	"github.com/temirov/overseer/internal/filesystem"
)

const (
	yamlExtensionConstant                 = ".yaml"
	ymlExtensionConstant                  = ".yml"
	jsonSyntaxErrorMessageConstant        = "JSON syntax error."
	yamlSyntaxErrorMessageConstant        = "YAML syntax error."
	schemaValidationFailedMessageConstant = "Schema validation failed."
	schemaCompileFailedMessageConstant    = "Schema could not be compiled."
	dataReadFailedTemplateConstant        = "Could not read %s."
	yamlConversionFailedMessageConstant   = "YAML document cannot be represented as JSON."
)

// schemaChecker validates data documents against JSON Schema documents.
type schemaChecker struct {
	fileSystem filesystem.FileSystem
}

// check validates the document at dataPath against the schema at schemaPath.
// It returns nil when the document conforms.
func (checker schemaChecker) check(dataPath string, schemaPath string) *checks.Failure {
	dataContent, dataReadFailure := checker.read(dataPath)
	if dataReadFailure != nil {
		return dataReadFailure
	}
	schemaContent, schemaReadFailure := checker.read(schemaPath)
	if schemaReadFailure != nil {
		return schemaReadFailure
	}

	instance, instanceFailure := decodeInstance(dataPath, dataContent)
	if instanceFailure != nil {
		return instanceFailure
	}

	schemaDocument, schemaParseError := jsonschema.UnmarshalJSON(bytes.NewReader(schemaContent))
	if schemaParseError != nil {
		return checks.WrapFailure(checks.KindSyntax, jsonSyntaxErrorMessageConstant, fmt.Errorf("%s: %w", filepath.Base(schemaPath), schemaParseError))
	}

	compiler := jsonschema.NewCompiler()
	if addError := compiler.AddResource(schemaPath, schemaDocument); addError != nil {
		return checks.WrapFailure(checks.KindUnexpected, schemaCompileFailedMessageConstant, addError)
	}
	compiledSchema, compileError := compiler.Compile(schemaPath)
	if compileError != nil {
		return checks.WrapFailure(checks.KindUnexpected, schemaCompileFailedMessageConstant, compileError)
	}

	if validationError := compiledSchema.Validate(instance); validationError != nil {
		return checks.WrapFailure(checks.KindSchemaViolation, schemaValidationFailedMessageConstant, validationError)
	}
	return nil
}

func (checker schemaChecker) read(filePath string) ([]byte, *checks.Failure) {
	content, readError := checker.fileSystem.ReadFile(filePath)
	if readError == nil {
		return content, nil
	}
	message := fmt.Sprintf(dataReadFailedTemplateConstant, filepath.Base(filePath))
	if errors.Is(readError, os.ErrNotExist) {
		return nil, checks.WrapFailure(checks.KindMissingFile, message, readError)
	}
	return nil, checks.WrapFailure(checks.KindUnexpected, message, readError)
}

// decodeInstance parses JSON data files directly and converts YAML data files to JSON values.
func decodeInstance(dataPath string, content []byte) (any, *checks.Failure) {
	extension := strings.ToLower(filepath.Ext(dataPath))
	if extension != yamlExtensionConstant && extension != ymlExtensionConstant {
		instance, parseError := jsonschema.UnmarshalJSON(bytes.NewReader(content))
		if parseError != nil {
			return nil, checks.WrapFailure(checks.KindSyntax, jsonSyntaxErrorMessageConstant, parseError)
		}
		return instance, nil
	}

	var yamlDocument any
	if parseError := yaml.Unmarshal(content, &yamlDocument); parseError != nil {
		return nil, checks.WrapFailure(checks.KindSyntax, yamlSyntaxErrorMessageConstant, parseError)
	}
	jsonContent, marshalError := json.Marshal(yamlDocument)
	if marshalError != nil {
		return nil, checks.WrapFailure(checks.KindSyntax, yamlConversionFailedMessageConstant, marshalError)
	}
	instance, parseError := jsonschema.UnmarshalJSON(bytes.NewReader(jsonContent))
	if parseError != nil {
		return nil, checks.WrapFailure(checks.KindSyntax, yamlConversionFailedMessageConstant, parseError)
	}
	return instance, nil
}
