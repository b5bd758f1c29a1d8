package parser

import (
	"github.com/pb33f/libopenapi/datamodel/high/base"
	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"

	"github.com/specx2/oasclient/core/ir"
)

type methodOperation struct {
	method string
	op     *v3.Operation
}

// pathItemOperations returns the operations of a path item in the canonical
// method order. Iterating the item's fields directly keeps the catalog order
// stable across loads.
func pathItemOperations(item *v3.PathItem) []methodOperation {
	candidates := []methodOperation{
		{"get", item.Get},
		{"put", item.Put},
		{"post", item.Post},
		{"patch", item.Patch},
		{"delete", item.Delete},
		{"options", item.Options},
		{"head", item.Head},
		{"trace", item.Trace},
	}

	operations := make([]methodOperation, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.op != nil {
			operations = append(operations, candidate)
		}
	}
	return operations
}

// flatten walks every path item and produces the one-dimensional operation
// catalog. Path-level parameters and servers are appended after the
// operation's own, so lookups that take the first match prefer the more
// specific declaration.
func flatten(model *v3.Document) (*ir.Document, error) {
	doc := &ir.Document{}
	if model.Info != nil {
		doc.Title = model.Info.Title
		doc.APIVersion = model.Info.Version
	}
	doc.Servers = convertServers(model.Servers)
	doc.Security = convertSecurity(model.Security)

	if model.Paths == nil || model.Paths.PathItems == nil {
		return doc, nil
	}

	for path, item := range model.Paths.PathItems.FromOldest() {
		if item == nil {
			continue
		}

		commonParams := convertParameters(item.Parameters)
		commonServers := convertServers(item.Servers)

		for _, entry := range pathItemOperations(item) {
			op := entry.op
			operation := &ir.Operation{
				Path:        path,
				Method:      entry.method,
				OperationID: op.OperationId,
				Summary:     op.Summary,
				Description: op.Description,
				Tags:        append([]string(nil), op.Tags...),
				Deprecated:  op.Deprecated != nil && *op.Deprecated,
				Parameters:  append(convertParameters(op.Parameters), commonParams...),
				Servers:     append(convertServers(op.Servers), commonServers...),
				Security:    operationSecurity(op.Security, doc.Security),
				RequestBody: convertRequestBody(op.RequestBody),
				Responses:   convertResponses(op.Responses),
				Extensions:  convertExtensionsMap(op.Extensions),
			}
			doc.Operations = append(doc.Operations, operation)
		}
	}

	return doc, nil
}

func convertParameters(params []*v3.Parameter) []ir.Parameter {
	var result []ir.Parameter
	for _, param := range params {
		if param == nil {
			continue
		}
		converted := ir.Parameter{
			Name:            param.Name,
			In:              param.In,
			Required:        param.Required != nil && *param.Required,
			Schema:          convertSchema(param.Schema),
			Description:     param.Description,
			Style:           param.Style,
			Explode:         param.Explode,
			AllowReserved:   param.AllowReserved,
			Deprecated:      param.Deprecated,
			AllowEmptyValue: param.AllowEmptyValue,
			Example:         extractExampleValue(param.Example),
			Extensions:      convertExtensionsMap(param.Extensions),
		}
		result = append(result, converted)
	}
	return result
}

func convertServers(servers []*v3.Server) []ir.Server {
	var result []ir.Server
	for _, srv := range servers {
		if srv == nil {
			continue
		}
		converted := ir.Server{
			URL:         srv.URL,
			Description: srv.Description,
			Extensions:  convertExtensionsMap(srv.Extensions),
		}
		if srv.Variables != nil && srv.Variables.Len() > 0 {
			converted.Variables = make(map[string]ir.ServerVariable, srv.Variables.Len())
			for name, variable := range srv.Variables.FromOldest() {
				if variable == nil {
					continue
				}
				converted.Variables[name] = ir.ServerVariable{
					Default:     variable.Default,
					Enum:        append([]string(nil), variable.Enum...),
					Description: variable.Description,
				}
			}
		}
		result = append(result, converted)
	}
	return result
}

func convertSecurity(requirements []*base.SecurityRequirement) []ir.SecurityRequirement {
	var result []ir.SecurityRequirement
	for _, requirement := range requirements {
		if requirement == nil {
			continue
		}
		converted := ir.SecurityRequirement{}
		if requirement.Requirements != nil {
			for scheme, scopes := range requirement.Requirements.FromOldest() {
				converted[scheme] = append([]string(nil), scopes...)
			}
		}
		result = append(result, converted)
	}
	return result
}

// operationSecurity keeps the operation's own requirements when declared,
// even an explicit empty list, and inherits the document's otherwise.
func operationSecurity(own []*base.SecurityRequirement, inherited []ir.SecurityRequirement) []ir.SecurityRequirement {
	if own == nil {
		return inherited
	}
	return convertSecurity(own)
}

func convertRequestBody(body *v3.RequestBody) *ir.RequestBodyInfo {
	if body == nil {
		return nil
	}

	info := &ir.RequestBodyInfo{
		Required:    body.Required != nil && *body.Required,
		Description: body.Description,
	}

	if body.Content != nil {
		info.ContentSchemas = make(map[string]ir.Schema, body.Content.Len())
		for contentType, media := range body.Content.FromOldest() {
			info.ContentOrder = append(info.ContentOrder, contentType)
			if media == nil {
				continue
			}
			if schema := convertSchema(media.Schema); schema != nil {
				info.ContentSchemas[contentType] = schema
			}
			if encodings := convertEncodings(media); encodings != nil {
				if info.Encodings == nil {
					info.Encodings = make(map[string]map[string]ir.EncodingInfo)
				}
				info.Encodings[contentType] = encodings
			}
		}
	}

	return info
}

func convertEncodings(media *v3.MediaType) map[string]ir.EncodingInfo {
	if media.Encoding == nil || media.Encoding.Len() == 0 {
		return nil
	}
	encodings := make(map[string]ir.EncodingInfo, media.Encoding.Len())
	for property, encoding := range media.Encoding.FromOldest() {
		if encoding == nil {
			continue
		}
		encodings[property] = ir.EncodingInfo{
			ContentType:   encoding.ContentType,
			Style:         encoding.Style,
			Explode:       encoding.Explode,
			AllowReserved: encoding.AllowReserved,
		}
	}
	return encodings
}

func convertResponses(responses *v3.Responses) map[string]ir.ResponseInfo {
	if responses == nil {
		return nil
	}

	result := make(map[string]ir.ResponseInfo)
	if responses.Codes != nil {
		for status, response := range responses.Codes.FromOldest() {
			if response == nil {
				continue
			}
			result[status] = convertResponse(response)
		}
	}
	if responses.Default != nil {
		result["default"] = convertResponse(responses.Default)
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

func convertResponse(response *v3.Response) ir.ResponseInfo {
	info := ir.ResponseInfo{Description: response.Description}
	if response.Content != nil && response.Content.Len() > 0 {
		info.ContentSchemas = make(map[string]ir.Schema, response.Content.Len())
		for contentType, media := range response.Content.FromOldest() {
			if media == nil {
				continue
			}
			if schema := convertSchema(media.Schema); schema != nil {
				info.ContentSchemas[contentType] = schema
			}
		}
	}
	return info
}
