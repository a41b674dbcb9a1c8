package graph_test

import (
	"fmt"
	"os"

	"github.com/matzehuels/doctriage/pkg/docs"
	"github.com/matzehuels/doctriage/pkg/graph"
)

func ExampleWriteBundle() {
	b := graph.NewBundle(
		[]docs.Document{{ID: "d1", FileName: "lease.pdf", Status: docs.StatusUnread}},
		nil,
	)
	b.Documents[0].Tags = []string{"Contract"}
	b.Documents[0].Annotations = []docs.Annotation{}
	_ = graph.WriteBundle(b, os.Stdout)
	// Output:
	// {
	//   "version": 1,
	//   "documents": [
	//     {
	//       "id": "d1",
	//       "fileName": "lease.pdf",
	//       "fileType": "",
	//       "uploadDate": "0001-01-01T00:00:00Z",
	//       "fileSize": 0,
	//       "tags": [
	//         "Contract"
	//       ],
	//       "status": "Unread",
	//       "annotations": [],
	//       "entities": {
	//         "people": null,
	//         "organizations": null,
	//         "dates": null,
	//         "locations": null
	//       }
	//     }
	//   ],
	//   "relationships": []
	// }
}

func ExampleBundle_Validate() {
	b := graph.NewBundle(nil, []docs.Relationship{
		{SourceID: "a", TargetID: "a", Type: docs.RelSimilar, Strength: 0.5},
	})
	fmt.Println(b.Validate())
	// Output: INVALID_RELATIONSHIP: relationship cannot link "a" to itself
}
